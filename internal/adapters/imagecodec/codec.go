// Package imagecodec converts images between pixel buffers, base64 PNG and image files.
package imagecodec

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg" // register JPEG decoding for input files
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageCodec = (*Codec)(nil)

// Codec implements ports.ImageCodec with PNG as the transport and output format.
type Codec struct {
	encoder png.Encoder
}

// New creates a new Codec.
func New() *Codec {
	return &Codec{
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// EncodeBase64 encodes an image as a base64 PNG.
func (c *Codec) EncodeBase64(img *domain.Image) (string, error) {
	data, err := c.encodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBase64 decodes a base64 image. A data URL prefix such as "data:image/png;base64," is ignored.
func (c *Codec) DecodeBase64(data string, channels int) (*domain.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(StripDataURL(data))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageDecodeFailed.Error())
	}
	return decode(raw, channels)
}

// ReadFile decodes a PNG or JPEG file.
func (c *Codec) ReadFile(path string, channels int) (*domain.Image, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the user's job or command line
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	img, err := decode(raw, channels)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return img, nil
}

// WriteFile encodes an image as PNG and writes it to path, creating parent directories.
func (c *Codec) WriteFile(path string, img *domain.Image) error {
	data, err := c.encodePNG(img)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
		}
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}

// StripDataURL removes a "data:<mime>;base64," prefix if present.
func StripDataURL(data string) string {
	if !strings.HasPrefix(data, "data:") {
		return data
	}
	if _, rest, ok := strings.Cut(data, ","); ok {
		return rest
	}
	return data
}

func (c *Codec) encodePNG(img *domain.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageEncodeFailed.Error())
	}
	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, img.ToStdImage()); err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageEncodeFailed.Error())
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, channels int) (*domain.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageDecodeFailed.Error())
	}
	return domain.FromStdImage(src, channels), nil
}
