package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/manifold/internal/adapters/telemetry"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
)

func setupRecorder(t *testing.T) (*tracetest.SpanRecorder, *telemetry.OTelTracer) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, telemetry.NewOTelTracer(tp, "test")
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_StartWithAttributes(t *testing.T) {
	sr, tracer := setupRecorder(t)

	_, span := tracer.Start(t.Context(), "compose_environment",
		ports.WithAttribute("environment", "default"),
		ports.WithAttribute("platform", domain.Platform("linux-64")),
		ports.WithAttribute("features", 2),
	)
	span.SetAttribute("has_pypi", true)
	span.SetAttribute("channels", []string{"conda-forge"})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "compose_environment", spans[0].Name())

	got := attrs(spans[0])
	assert.Equal(t, "default", got["environment"].AsString())
	assert.Equal(t, "linux-64", got["platform"].AsString())
	assert.Equal(t, int64(2), got["features"].AsInt64())
	assert.True(t, got["has_pypi"].AsBool())
	assert.Equal(t, []string{"conda-forge"}, got["channels"].AsStringSlice())
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr, tracer := setupRecorder(t)

	_, span := tracer.Start(t.Context(), "run_task")
	span.RecordError(errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr, tracer := setupRecorder(t)

	tracer.EmitPlan(t.Context(), []string{"build"})
	assert.Empty(t, sr.Ended(), "no span in context")

	ctx, span := tracer.Start(t.Context(), "run_task")
	tracer.EmitPlan(ctx, []string{"build", "test"})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	sr, tracer := setupRecorder(t)

	ctx, parent := tracer.Start(t.Context(), "info")
	_, child := tracer.Start(ctx, "compose_environment")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
