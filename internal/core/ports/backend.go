package ports

import (
	"context"

	"go.trai.ch/sdnode/internal/core/domain"
)

// Backend is a client of the external Stable Diffusion web UI API.
//
//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Img2Img sends an image to image request and returns the generated images.
	// Transport errors are returned with their cause chain intact and are never retried.
	Img2Img(ctx context.Context, payload *domain.Img2ImgPayload) (*domain.GenerationResult, error)

	// Ping verifies the API is reachable and returns the loaded model checkpoint.
	Ping(ctx context.Context) (string, error)
}
