package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/sdnode/internal/adapters/telemetry"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/sdnode/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr
}

func attrs(span trace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_StartAttributes(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(t.Context(), "node:out.png",
		ports.WithAttribute("node.id", "img2img"),
		ports.WithAttribute("width", 512),
	)
	span.SetAttribute("cache.hit", true)
	span.SetAttribute("denoise", 0.75)
	span.SetAttribute("inputs", []string{"a", "b"})
	span.SetAttribute("elapsed", time.Second)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "node:out.png", spans[0].Name())

	got := attrs(spans[0])
	assert.Equal(t, "img2img", got["node.id"].AsString())
	assert.Equal(t, int64(512), got["width"].AsInt64())
	assert.True(t, got["cache.hit"].AsBool())
	assert.InDelta(t, 0.75, got["denoise"].AsFloat64(), 0)
	assert.Equal(t, []string{"a", "b"}, got["inputs"].AsStringSlice())
	assert.Equal(t, "1s", got["elapsed"].AsString())
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(t.Context(), "node:out.png")
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
	sr := setupRecorder(t)

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnPlanEmit([]string{"a.png", "b.png"}).Times(2)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)

	// no span in context
	tracer.EmitPlan(t.Context(), []string{"a.png", "b.png"})
	assert.Empty(t, sr.Ended())

	ctx, span := otel.Tracer("test").Start(t.Context(), "run")
	tracer.EmitPlan(ctx, []string{"a.png", "b.png"})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelSpan_WriteForwardsLines(t *testing.T) {
	setupRecorder(t)

	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var lines []string
	renderer.EXPECT().OnTaskLog(gomock.Any(), gomock.Any()).
		Do(func(_ string, data []byte) { lines = append(lines, string(data)) }).
		Times(3)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	_, span := tracer.Start(t.Context(), "node:out.png")

	n, err := span.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = span.Write([]byte("ond\nthird"))
	require.NoError(t, err)
	span.End()

	// writes after End are dropped
	_, err = span.Write([]byte("late\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first\n", "second\n", "third\n"}, lines)
}

func TestOTelSpan_WriteWithoutRenderer(t *testing.T) {
	sr := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test")

	_, span := tracer.Start(t.Context(), "node:out.png")
	_, err := span.Write([]byte("hello"))
	require.NoError(t, err)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "log", spans[0].Events()[0].Name)
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(t.Context(), "noop", ports.WithAttribute("k", "v"))
	assert.Equal(t, t.Context(), ctx)

	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	span.SetAttribute("k", 1)
	span.RecordError(errors.New("ignored"))
	span.End()
	tracer.EmitPlan(ctx, []string{"x"})
}
