package ports

import (
	"context"

	"go.trai.ch/sdnode/internal/core/domain"
)

// ResultStore persists node outputs by fingerprint beyond the lifetime of a run.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResultStore interface {
	// Get retrieves the image stored for a fingerprint.
	// Returns nil, nil if not found.
	Get(ctx context.Context, fp domain.Fingerprint) (*domain.Image, error)

	// Put stores the image for a fingerprint.
	Put(ctx context.Context, fp domain.Fingerprint, img *domain.Image) error
}
