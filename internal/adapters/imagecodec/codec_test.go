package imagecodec_test

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/internal/adapters/imagecodec"
	"go.trai.ch/sdnode/internal/core/domain"
)

func gradient(w, h int) *domain.Image {
	img := domain.NewImage(w, h, domain.RGBChannels)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251) //nolint:gosec // bounded by modulo
	}
	return img
}

func TestCodec_Base64RoundTrip(t *testing.T) {
	codec := imagecodec.New()
	src := gradient(5, 3)

	encoded, err := codec.EncodeBase64(src)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	decoded, err := codec.DecodeBase64(encoded, domain.RGBChannels)
	require.NoError(t, err)
	assert.Equal(t, src.Width, decoded.Width)
	assert.Equal(t, src.Height, decoded.Height)
	assert.Equal(t, domain.RGBChannels, decoded.Channels)
	assert.Equal(t, src.Pix, decoded.Pix)
}

func TestCodec_DecodeBase64_DataURL(t *testing.T) {
	codec := imagecodec.New()
	encoded, err := codec.EncodeBase64(gradient(2, 2))
	require.NoError(t, err)

	decoded, err := codec.DecodeBase64("data:image/png;base64,"+encoded, domain.RGBChannels)
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Width)
}

func TestCodec_DecodeBase64_Invalid(t *testing.T) {
	codec := imagecodec.New()

	_, err := codec.DecodeBase64("not base64 !!", domain.RGBChannels)
	require.ErrorContains(t, err, domain.ErrImageDecodeFailed.Error())

	// valid base64, not an image
	_, err = codec.DecodeBase64("aGVsbG8=", domain.RGBChannels)
	require.ErrorContains(t, err, domain.ErrImageDecodeFailed.Error())
}

func TestCodec_EncodeBase64_InvalidImage(t *testing.T) {
	codec := imagecodec.New()
	bad := domain.NewImage(2, 2, 3)
	bad.Pix = bad.Pix[:3]

	_, err := codec.EncodeBase64(bad)
	require.ErrorContains(t, err, domain.ErrImageEncodeFailed.Error())
}

func TestCodec_Files(t *testing.T) {
	codec := imagecodec.New()
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := gradient(4, 4)

	require.NoError(t, codec.WriteFile(path, src))

	got, err := codec.ReadFile(path, domain.RGBChannels)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix)

	gray, err := codec.ReadFile(path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, gray.Channels)
	assert.Len(t, gray.Pix, 16)
}

func TestCodec_ReadFile_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.jpg")
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := range 8 {
		for x := range 16 {
			src.Set(x, y, color.RGBA{R: 120, G: 60, B: 30, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, src, nil))
	require.NoError(t, f.Close())

	got, err := imagecodec.New().ReadFile(path, domain.RGBChannels)
	require.NoError(t, err)
	assert.Equal(t, 16, got.Width)
	assert.Equal(t, 8, got.Height)
}

func TestCodec_ReadFile_Missing(t *testing.T) {
	_, err := imagecodec.New().ReadFile(filepath.Join(t.TempDir(), "missing.png"), domain.RGBChannels)
	require.ErrorContains(t, err, domain.ErrFileOpenFailed.Error())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStripDataURL(t *testing.T) {
	assert.Equal(t, "abc", imagecodec.StripDataURL("abc"))
	assert.Equal(t, "abc", imagecodec.StripDataURL("data:image/png;base64,abc"))
	assert.Equal(t, "data:broken", imagecodec.StripDataURL("data:broken"))
}
