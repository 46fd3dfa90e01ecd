// Package progress renders a run as a progress bar on an interactive terminal.
package progress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/sdnode/internal/ui/output"
	"go.trai.ch/sdnode/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with a single bar counting finished invocations.
// Failures are printed above the bar, invocation output is dropped.
type Renderer struct {
	w      io.Writer
	output *termenv.Output
	opts   []progressbar.Option

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	tasks   map[string]string
	running int
	failed  int
	done    chan struct{}
	stopped bool
}

// NewRenderer creates a Renderer writing to w, or stderr when w is nil.
func NewRenderer(w io.Writer, opts ...progressbar.Option) *Renderer {
	if w == nil {
		w = os.Stderr
	}

	return &Renderer{
		w:      w,
		output: output.New(w),
		opts:   opts,
		tasks:  make(map[string]string),
		done:   make(chan struct{}),
	}
}

// Start stops the renderer when ctx is cancelled.
func (r *Renderer) Start(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = r.Stop()
		case <-r.done:
		}
	}()
	return nil
}

// Stop finishes the bar. It is safe to call more than once.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil
	}
	r.stopped = true
	defer close(r.done)

	if r.bar == nil {
		return nil
	}
	if err := r.bar.Exit(); err != nil {
		return err
	}
	_, err := io.WriteString(r.w, "\n")
	return err
}

// Wait blocks until Stop has been called.
func (r *Renderer) Wait() error {
	<-r.done
	return nil
}

// OnPlanEmit creates the bar sized to the planned invocations.
func (r *Renderer) OnPlanEmit(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	opts := append([]progressbar.Option{
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Planning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWidth(30),
	}, r.opts...)

	r.bar = progressbar.NewOptions(len(names), opts...)
}

// OnTaskStart updates the bar description.
func (r *Renderer) OnTaskStart(spanID, _, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = name
	r.running++
	r.describeLocked(name)
}

// OnTaskLog drops invocation output, it would tear the bar.
func (r *Renderer) OnTaskLog(_ string, _ []byte) {}

// OnTaskComplete advances the bar and prints failures above it.
func (r *Renderer) OnTaskComplete(spanID string, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.running--

	if r.bar == nil || r.stopped {
		return
	}

	if err != nil {
		r.failed++
		_ = r.bar.Clear()
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.w, "\r%s %s: %v\n", symbol, name, err)
	}

	r.describeLocked(name)
	_ = r.bar.Add(1)
}

// Failed returns the number of invocations reported as failed.
func (r *Renderer) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Percent returns the finished share of the planned invocations.
func (r *Renderer) Percent() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return 0
	}
	return r.bar.State().CurrentPercent
}

func (r *Renderer) describeLocked(name string) {
	if r.bar == nil {
		return
	}
	var desc bytes.Buffer
	desc.WriteString(name)
	if r.running > 1 {
		fmt.Fprintf(&desc, " (+%d)", r.running-1)
	}
	r.bar.Describe(desc.String())
}
