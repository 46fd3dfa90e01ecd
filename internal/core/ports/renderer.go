package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same span stream to drive either a progress bar or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the runner knows which invocations it will execute.
	OnPlanEmit(names []string)

	// OnTaskStart is called when an invocation begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when an invocation emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when an invocation finishes. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
