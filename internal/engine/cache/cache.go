// Package cache implements the invocation cache that runs each node invocation at most once per fingerprint.
package cache

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

var _ ports.InvocationCache = (*Cache)(nil)

// Source tells where an invocation result came from.
type Source int

const (
	// SourceCompute means the compute function produced the result.
	SourceCompute Source = iota
	// SourceMemory means the result was already held by the cache.
	SourceMemory
	// SourceStore means the result was loaded from the persistent result store.
	SourceStore
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceStore:
		return "store"
	default:
		return "compute"
	}
}

// Hit reports whether the result was served without computing.
func (s Source) Hit() bool {
	return s != SourceCompute
}

// Cache maps fingerprints to node outputs for the lifetime of a session.
// Entries are never evicted. Concurrent invocations with the same fingerprint
// share one computation.
type Cache struct {
	logger  ports.Logger
	store   ports.ResultStore
	metrics ports.Metrics

	mu      sync.RWMutex
	entries map[domain.Fingerprint]*domain.Image
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a persistent result store consulted before computing.
func WithStore(store ports.ResultStore) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// WithMetrics records cache hits and misses.
func WithMetrics(metrics ports.Metrics) Option {
	return func(c *Cache) {
		c.metrics = metrics
	}
}

// New creates an empty Cache.
func New(logger ports.Logger, opts ...Option) *Cache {
	c := &Cache{
		logger:  logger,
		entries: make(map[domain.Fingerprint]*domain.Image),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke returns the stored output for fp, or calls compute once and stores its result.
func (c *Cache) Invoke(ctx context.Context, fp domain.Fingerprint, compute ports.ComputeFunc) (*domain.Image, error) {
	img, _, err := c.InvokeWithSource(ctx, fp, compute)
	return img, err
}

// InvokeWithSource behaves like Invoke and also reports where the result came from.
//
// A failing compute stores nothing and its error is returned unchanged to every caller
// waiting on the same fingerprint. A panic in compute is re-raised with its original
// value in every waiting caller.
//
// Compute runs under the context of the caller that started the flight. A waiter stops
// waiting when its own context ends, and retries when the flight failed only because the
// starting caller's context ended.
func (c *Cache) InvokeWithSource(
	ctx context.Context,
	fp domain.Fingerprint,
	compute ports.ComputeFunc,
) (*domain.Image, Source, error) {
	for {
		if img, ok := c.Get(fp); ok {
			c.hit(SourceMemory)
			return img, SourceMemory, nil
		}

		flight := c.group.DoChan(fp.String(), func() (v any, err error) {
			defer func() {
				if r := recover(); r != nil {
					v, err = nil, &recoveredPanic{value: r}
				}
			}()
			res, err := c.fill(ctx, fp, compute)
			if err != nil && ctx.Err() != nil {
				return nil, &abandonedFlight{err: err}
			}
			return res, err
		})

		var done singleflight.Result
		select {
		case done = <-flight:
		case <-ctx.Done():
			return nil, SourceCompute, ctx.Err()
		}

		var rp *recoveredPanic
		if errors.As(done.Err, &rp) {
			panic(rp.value)
		}

		var abandoned *abandonedFlight
		if errors.As(done.Err, &abandoned) {
			if ctx.Err() == nil {
				continue
			}
			return nil, SourceCompute, abandoned.err
		}

		if done.Err != nil {
			return nil, SourceCompute, done.Err
		}

		r, _ := done.Val.(result)
		return r.img, r.source, nil
	}
}

// Get returns the entry for fp without computing.
func (c *Cache) Get(fp domain.Fingerprint) (*domain.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.entries[fp]
	return img, ok
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type result struct {
	img    *domain.Image
	source Source
}

// fill runs inside the flight for fp.
func (c *Cache) fill(ctx context.Context, fp domain.Fingerprint, compute ports.ComputeFunc) (result, error) {
	// A previous flight may have finished between the fast path and this one.
	if img, ok := c.Get(fp); ok {
		c.hit(SourceMemory)
		return result{img: img, source: SourceMemory}, nil
	}

	if img := c.loadFromStore(ctx, fp); img != nil {
		c.set(fp, img)
		c.hit(SourceStore)
		return result{img: img, source: SourceStore}, nil
	}

	if c.metrics != nil {
		c.metrics.CacheMiss()
	}

	img, err := compute(ctx)
	if err != nil {
		return result{}, err
	}

	c.set(fp, img)
	c.saveToStore(ctx, fp, img)

	return result{img: img, source: SourceCompute}, nil
}

func (c *Cache) set(fp domain.Fingerprint, img *domain.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fp] = img
}

func (c *Cache) hit(source Source) {
	if c.metrics != nil {
		c.metrics.CacheHit(source.String())
	}
}

// loadFromStore returns nil when there is no store, no entry, or the store failed.
func (c *Cache) loadFromStore(ctx context.Context, fp domain.Fingerprint) *domain.Image {
	if c.store == nil {
		return nil
	}
	img, err := c.store.Get(ctx, fp)
	if err != nil {
		c.logger.Warn("result store lookup failed for " + fp.String() + ": " + err.Error())
		return nil
	}
	return img
}

func (c *Cache) saveToStore(ctx context.Context, fp domain.Fingerprint, img *domain.Image) {
	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, fp, img); err != nil {
		c.logger.Warn("result store write failed for " + fp.String() + ": " + err.Error())
	}
}

// recoveredPanic carries a panic value across the singleflight boundary.
type recoveredPanic struct {
	value any
}

func (p *recoveredPanic) Error() string {
	return "panic during node compute"
}

// abandonedFlight marks a compute that failed after the context of the flight's starter ended.
type abandonedFlight struct {
	err error
}

func (a *abandonedFlight) Error() string {
	return a.err.Error()
}
