package ports

import (
	"context"

	"go.trai.ch/sdnode/internal/core/domain"
)

// ComputeFunc produces a node output. It is called at most once per fingerprint.
type ComputeFunc func(ctx context.Context) (*domain.Image, error)

// InvocationCache returns the output of a node invocation, computing it at most once per fingerprint.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type InvocationCache interface {
	// Invoke returns the stored output for fp, or calls compute once and stores its result.
	Invoke(ctx context.Context, fp domain.Fingerprint, compute ComputeFunc) (*domain.Image, error)
}
