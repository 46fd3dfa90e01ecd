package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/sdnode/internal/adapters/telemetry"
	"go.trai.ch/sdnode/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func bridgedProvider(t *testing.T, bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	t.Helper()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp
}

func TestBridge_ForwardsChildSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, telemetry.NewBridge(renderer))
	tracer := tp.Tracer("test")

	ctx, root := tracer.Start(t.Context(), "run")
	rootID := root.SpanContext().SpanID().String()

	var childID string
	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), rootID, "node:out.png", gomock.Any()).
			Do(func(spanID, _, _ string, _ time.Time) { childID = spanID }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil).
			Do(func(spanID string, _ time.Time, _ error) { assert.Equal(t, childID, spanID) }),
	)

	_, child := tracer.Start(ctx, "node:out.png")
	child.End()
	root.End()
}

func TestBridge_ForwardsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, telemetry.NewBridge(renderer))
	tracer := tp.Tracer("test")

	var got error
	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Time, err error) { got = err })

	ctx, root := tracer.Start(t.Context(), "run")
	_, child := tracer.Start(ctx, "node:out.png")
	child.SetStatus(codes.Error, "backend is unavailable")
	child.End()
	root.End()

	require.Error(t, got)
	assert.Equal(t, "backend is unavailable", got.Error())
}

func TestBridge_IgnoresRootSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, telemetry.NewBridge(renderer))

	_, root := tp.Tracer("test").Start(t.Context(), "run")
	root.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := bridgedProvider(t, telemetry.NewBridge(nil))
	tracer := tp.Tracer("test")

	ctx, root := tracer.Start(t.Context(), "run")
	_, child := tracer.Start(ctx, "node:out.png")
	child.End()
	root.End()

	bridge := telemetry.NewBridge(nil)
	require.NoError(t, bridge.ForceFlush(t.Context()))
	require.NoError(t, bridge.Shutdown(t.Context()))
}
