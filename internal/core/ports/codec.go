package ports

import "go.trai.ch/sdnode/internal/core/domain"

// ImageCodec converts images to and from their transport and file encodings.
//
//go:generate mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type ImageCodec interface {
	// EncodeBase64 encodes an image as a base64 PNG.
	EncodeBase64(img *domain.Image) (string, error)

	// DecodeBase64 decodes a base64 image into a buffer with the given channel count.
	DecodeBase64(data string, channels int) (*domain.Image, error)

	// ReadFile decodes an image file into a buffer with the given channel count.
	ReadFile(path string, channels int) (*domain.Image, error)

	// WriteFile encodes an image as PNG and writes it to path.
	WriteFile(path string, img *domain.Image) error
}
