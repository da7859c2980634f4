package spies

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures metrics calls for testing.
// It implements the context-aware variant as well, and records whether a call came with a context.
type MetricsCollectorSpy struct {
	durationRecords []DurationRecord
	counterRecords  []CounterRecord
	valueRecords    []ValueRecord
	mu              sync.Mutex
}

// DurationRecord represents a recorded duration metric call.
type DurationRecord struct {
	Metric      string
	Duration    time.Duration
	Labels      map[string]string
	WithContext bool
}

// CounterRecord represents a recorded counter increment call.
type CounterRecord struct {
	Metric      string
	Labels      map[string]string
	WithContext bool
}

// ValueRecord represents a recorded value metric call.
type ValueRecord struct {
	Metric      string
	Value       float64
	Labels      map[string]string
	WithContext bool
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration implements MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.recordDuration(metric, duration, labels, false)
}

// RecordDurationContext implements ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.recordDuration(metric, duration, labels, true)
}

// IncrementCounter implements MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.incrementCounter(metric, labels, false)
}

// IncrementCounterContext implements ContextualMetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.incrementCounter(metric, labels, true)
}

// RecordValue implements MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.recordValue(metric, value, labels, false)
}

// RecordValueContext implements ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.recordValue(metric, value, labels, true)
}

// DurationRecords returns a copy of all captured duration records.
func (s *MetricsCollectorSpy) DurationRecords() []DurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]DurationRecord(nil), s.durationRecords...)
}

// CounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) CounterRecords() []CounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]CounterRecord(nil), s.counterRecords...)
}

// ValueRecords returns a copy of all captured value records.
func (s *MetricsCollectorSpy) ValueRecords() []ValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ValueRecord(nil), s.valueRecords...)
}

// HasCounter checks if a counter was incremented for metric with all the given labels.
func (s *MetricsCollectorSpy) HasCounter(metric string, labels map[string]string) bool {
	for _, record := range s.CounterRecords() {
		if record.Metric == metric && containsLabels(record.Labels, labels) {
			return true
		}
	}

	return false
}

func (s *MetricsCollectorSpy) recordDuration(metric string, duration time.Duration, labels map[string]string, withContext bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, DurationRecord{
		Metric:      metric,
		Duration:    duration,
		Labels:      maps.Clone(labels),
		WithContext: withContext,
	})
}

func (s *MetricsCollectorSpy) incrementCounter(metric string, labels map[string]string, withContext bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, CounterRecord{
		Metric:      metric,
		Labels:      maps.Clone(labels),
		WithContext: withContext,
	})
}

func (s *MetricsCollectorSpy) recordValue(metric string, value float64, labels map[string]string, withContext bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, ValueRecord{
		Metric:      metric,
		Value:       value,
		Labels:      maps.Clone(labels),
		WithContext: withContext,
	})
}

func containsLabels(actual, expected map[string]string) bool {
	for key, value := range expected {
		if actual[key] != value {
			return false
		}
	}

	return true
}
