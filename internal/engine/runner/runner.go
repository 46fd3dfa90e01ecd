// Package runner executes a job: a flat batch of node invocations sharing one invocation cache.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/sdnode/internal/engine/cache"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Invocation outcomes reported to metrics.
const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
)

// RootSpanName names the span that encloses a whole run.
const RootSpanName = "run"

// NodeSource looks up nodes by ID.
type NodeSource interface {
	Get(id string) (ports.Node, error)
}

// Runner executes jobs.
type Runner struct {
	nodes   NodeSource
	cache   *cache.Cache
	codec   ports.ImageCodec
	tracer  ports.Tracer
	metrics ports.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics counts finished invocations by node and outcome.
func WithMetrics(metrics ports.Metrics) Option {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// New creates a Runner.
func New(nodes NodeSource, invocations *cache.Cache, codec ports.ImageCodec, tracer ports.Tracer, opts ...Option) *Runner {
	r := &Runner{
		nodes:  nodes,
		cache:  invocations,
		codec:  codec,
		tracer: tracer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SpanName returns the name of the span of the invocation writing output.
func SpanName(output string) string {
	return "node:" + output
}

type task struct {
	index      int
	invocation domain.Invocation
	prepared   *ports.Prepared
}

// Run prepares every invocation, then executes them with at most parallelism running at once.
//
// Preparation errors abort the run before anything executes. Invocation errors do not stop
// the other invocations and are returned joined. A panic in an invocation cancels the run and
// is re-raised on the calling goroutine once all invocations have stopped.
func (r *Runner) Run(ctx context.Context, job *domain.Job, parallelism int) ([]domain.InvocationResult, error) {
	if len(job.Invocations) == 0 {
		return nil, domain.ErrEmptyJob
	}
	if parallelism < 1 {
		parallelism = 1
	}

	tasks, err := r.prepare(job)
	if err != nil {
		return nil, err
	}

	ctx, root := r.tracer.Start(ctx, RootSpanName, ports.WithAttribute("run.id", uuid.NewString()))
	defer root.End()

	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = SpanName(t.invocation.Output)
	}
	r.tracer.EmitPlan(ctx, names)

	state := &runState{
		results: make([]*domain.InvocationResult, len(job.Invocations)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, t := range tasks {
		g.Go(func() error {
			return r.execute(gctx, job.Dir, t, state)
		})
	}
	_ = g.Wait()

	if state.panicked {
		root.RecordError(errPanicked)
		panic(state.panicValue)
	}

	results := make([]domain.InvocationResult, 0, len(tasks))
	for _, res := range state.results {
		if res != nil {
			results = append(results, *res)
		}
	}

	if len(state.errs) > 0 {
		err := zerr.Wrap(errors.Join(state.errs...), domain.ErrRunFailed.Error())
		err = zerr.With(err, "failed", len(state.errs))
		root.RecordError(err)
		return results, err
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}

	return results, nil
}

var errPanicked = errors.New("invocation panicked")

type runState struct {
	mu         sync.Mutex
	results    []*domain.InvocationResult
	errs       []error
	panicked   bool
	panicValue any
}

func (s *runState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *runState) recordPanic(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.panicked {
		s.panicked = true
		s.panicValue = v
	}
}

// prepare resolves every node and decodes every invocation before anything runs.
func (r *Runner) prepare(job *domain.Job) ([]task, error) {
	images := make(map[string]*domain.Image)
	tasks := make([]task, 0, len(job.Invocations))
	var errs []error

	for i, inv := range job.Invocations {
		prepared, err := r.prepareOne(job.Dir, inv, images)
		if err != nil {
			errs = append(errs, zerr.With(zerr.With(err, "output", inv.Output), "node", inv.Node))
			continue
		}
		tasks = append(tasks, task{index: i, invocation: inv, prepared: prepared})
	}

	if len(errs) > 0 {
		return nil, zerr.Wrap(errors.Join(errs...), domain.ErrRunFailed.Error())
	}
	return tasks, nil
}

func (r *Runner) prepareOne(dir string, inv domain.Invocation, images map[string]*domain.Image) (*ports.Prepared, error) {
	node, err := r.nodes.Get(inv.Node)
	if err != nil {
		return nil, err
	}

	inputs := make(map[string]any, len(inv.Inputs))
	for k, v := range inv.Inputs {
		inputs[k] = v
	}

	for _, spec := range node.Schema().Inputs {
		if spec.Kind != domain.InputImage {
			continue
		}
		path, ok := inputs[spec.Key].(string)
		if !ok {
			continue
		}
		img, err := r.loadImage(resolve(dir, path), images)
		if err != nil {
			return nil, zerr.With(err, "input", spec.Key)
		}
		inputs[spec.Key] = img
	}

	return node.Prepare(inputs)
}

// loadImage reads each distinct path once.
func (r *Runner) loadImage(path string, images map[string]*domain.Image) (*domain.Image, error) {
	if img, ok := images[path]; ok {
		return img, nil
	}
	img, err := r.codec.ReadFile(path, domain.RGBChannels)
	if err != nil {
		return nil, err
	}
	images[path] = img
	return img, nil
}

func (r *Runner) execute(ctx context.Context, dir string, t task, state *runState) (err error) {
	inv := t.invocation
	p := t.prepared

	if ctx.Err() != nil {
		skipped := zerr.Wrap(context.Cause(ctx), domain.ErrInvocationFailed.Error())
		state.fail(zerr.With(skipped, "output", inv.Output))
		return nil
	}

	ctx, span := r.tracer.Start(ctx, SpanName(inv.Output),
		ports.WithAttribute("node.id", p.NodeID),
		ports.WithAttribute("fingerprint", p.Fingerprint.String()),
	)
	defer span.End()

	defer func() {
		if v := recover(); v != nil {
			if cv, ok := domain.AsContractViolation(v); ok {
				span.RecordError(cv)
			} else {
				span.RecordError(fmt.Errorf("panic: %v", v))
			}
			r.done(p.NodeID, OutcomeFailed)
			state.recordPanic(v)
			err = errPanicked
		}
	}()

	img, source, err := r.cache.InvokeWithSource(ctx, p.Fingerprint, p.Compute)
	span.SetAttribute("cache.hit", source.Hit())
	if err == nil && source.Hit() {
		_, _ = fmt.Fprintf(span, "served from cache (%s)\n", source)
	}
	if err == nil {
		err = r.codec.WriteFile(resolve(dir, inv.Output), img)
	}
	if err != nil {
		span.RecordError(err)
		r.done(p.NodeID, OutcomeFailed)
		wrapped := zerr.Wrap(err, domain.ErrInvocationFailed.Error())
		wrapped = zerr.With(wrapped, "output", inv.Output)
		state.fail(zerr.With(wrapped, "node", inv.Node))
		return nil
	}

	_, _ = fmt.Fprintf(span, "wrote %s (%dx%d)\n", inv.Output, img.Width, img.Height)

	outcome := OutcomeComputed
	if source.Hit() {
		outcome = OutcomeCached
	}
	r.done(p.NodeID, outcome)

	state.mu.Lock()
	state.results[t.index] = &domain.InvocationResult{
		Output:      inv.Output,
		Fingerprint: p.Fingerprint,
		CacheHit:    source.Hit(),
	}
	state.mu.Unlock()

	return nil
}

func (r *Runner) done(nodeID, outcome string) {
	if r.metrics != nil {
		r.metrics.InvocationDone(nodeID, outcome)
	}
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
