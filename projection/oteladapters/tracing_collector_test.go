package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/oteladapters"
)

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter, provider
}

func Test_TracingCollector_FinishSpan_RecordsNameAndAttributes(t *testing.T) {
	// setup
	collector, exporter, _ := givenTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "projection.run_sequential", map[string]string{
		"executor": "orders",
	})
	collector.FinishSpan(spanCtx, "completed", map[string]string{"operation_count": "3"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "projection.run_sequential", spans[0].Name)
	assertSpanHasAttribute(t, spans[0], "executor", "orders")
	assertSpanHasAttribute(t, spans[0], "operation_count", "3")
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func Test_TracingCollector_MapsOutcomesToSpanStatus(t *testing.T) {
	// setup
	collector, exporter, _ := givenTracingCollector()

	testCases := []struct {
		status              string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{"completed", codes.Ok, ""},
		{"success", codes.Ok, ""},
		{"failed", codes.Error, "projection sequence failed"},
		{"error", codes.Error, "projection sequence failed"},
		{"canceled", codes.Error, "projection sequence canceled"},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter.Reset()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "test", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_When_StatusIsUnknown_RecordsItAsAttribute(t *testing.T) {
	// setup
	collector, exporter, _ := givenTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "test", nil)
	collector.FinishSpan(spanCtx, "running", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "status", "running")
}

func Test_TracingCollector_StartSpan_IsChildOfContextSpan(t *testing.T) {
	// setup
	collector, exporter, provider := givenTracingCollector()
	parentCtx, parentSpan := provider.Tracer("test").Start(context.Background(), "parent")
	defer parentSpan.End()

	// act
	childCtx, spanCtx := collector.StartSpan(parentCtx, "child", nil)
	collector.FinishSpan(spanCtx, "completed", nil)

	// assert
	assert.NotEqual(t, parentCtx, childCtx)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, parentSpan.SpanContext().SpanID(), spans[0].Parent.SpanID())
}

func Test_TracingCollector_When_SpanContextIsForeign_IgnoresIt(t *testing.T) {
	// setup
	collector, exporter, _ := givenTracingCollector()

	// act
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "completed", map[string]string{"k": "v"})
	})

	// assert
	assert.Empty(t, exporter.GetSpans())
}

func Test_OTelSpanContext_SetStatusAndAddAttribute(t *testing.T) {
	// setup
	collector, exporter, _ := givenTracingCollector()
	_, spanCtx := collector.StartSpan(context.Background(), "test", nil)

	// act
	spanCtx.SetStatus("failed")
	spanCtx.AddAttribute("operation_index", "2")
	collector.FinishSpan(spanCtx, "failed", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "operation_index", "2")
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == expectedValue {
			return
		}
	}

	assert.Failf(t, "missing span attribute", "span %q should have attribute %s=%s", span.Name, key, expectedValue)
}
