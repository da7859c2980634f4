package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

// SpanContextSpy implements projection.SpanContext for testing.
type SpanContextSpy struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements projection.SpanContext.
func (c *SpanContextSpy) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// AddAttribute implements projection.SpanContext.
func (c *SpanContextSpy) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}

	c.attributes[key] = value
}

// Status returns the current status of the span.
func (c *SpanContextSpy) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Attributes returns a copy of all attributes added to the span.
func (c *SpanContextSpy) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpanRecord represents a recorded span.
type SpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	SpanContext     *SpanContextSpy
}

// TracingCollectorSpy captures tracing calls for testing.
type TracingCollectorSpy struct {
	spanRecords []SpanRecord
	mu          sync.Mutex
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

// StartSpan implements projection.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, projection.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spanCtx := &SpanContextSpy{}
	s.spanRecords = append(s.spanRecords, SpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		SpanContext:     spanCtx,
	})

	return ctx, spanCtx
}

// FinishSpan implements projection.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx projection.SpanContext, status string, attrs map[string]string) {
	spy, ok := spanCtx.(*SpanContextSpy)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.spanRecords {
		if s.spanRecords[i].SpanContext == spy {
			s.spanRecords[i].Status = status
			s.spanRecords[i].EndAttributes = maps.Clone(attrs)
			s.spanRecords[i].Finished = true

			break
		}
	}
}

// SpanRecords returns a copy of all span records.
func (s *TracingCollectorSpy) SpanRecords() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpanRecord(nil), s.spanRecords...)
}

// SpansNamed returns all span records with the given name.
func (s *TracingCollectorSpy) SpansNamed(name string) []SpanRecord {
	var spans []SpanRecord

	for _, record := range s.SpanRecords() {
		if record.Name == name {
			spans = append(spans, record)
		}
	}

	return spans
}
