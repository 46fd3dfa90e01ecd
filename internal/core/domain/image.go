// Package domain contains the core domain types for node invocation and caching.
package domain

import (
	"image"
	"image/color"

	"go.trai.ch/zerr"
)

// RGBChannels is the channel count of images produced by the Stable Diffusion nodes.
const RGBChannels = 3

// Image is a rectangular 8-bit pixel buffer stored row-major with interleaved channels.
// Supported channel counts are 1 (gray), 3 (RGB) and 4 (RGBA).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed image of the given shape.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Validate checks that the buffer length matches the declared shape.
func (img *Image) Validate() error {
	if img == nil {
		return zerr.With(ErrImageInvalid, "reason", "nil image")
	}
	switch img.Channels {
	case 1, 3, 4:
	default:
		return zerr.With(ErrImageInvalid, "channels", img.Channels)
	}
	if img.Width <= 0 || img.Height <= 0 {
		err := zerr.With(ErrImageInvalid, "width", img.Width)
		return zerr.With(err, "height", img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		err := zerr.With(ErrImageInvalid, "expected_len", img.Width*img.Height*img.Channels)
		return zerr.With(err, "actual_len", len(img.Pix))
	}
	return nil
}

// Size returns the image dimensions as width, height.
func (img *Image) Size() (width, height int) {
	return img.Width, img.Height
}

// FromStdImage converts an image.Image into a buffer with the requested channel count.
// Alpha is dropped for 1 and 3 channels; gray uses the standard luminance conversion.
func FromStdImage(src image.Image, channels int) *Image {
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy(), channels)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.At(x, y)
			switch channels {
			case 1:
				g, _ := color.GrayModel.Convert(c).(color.Gray)
				dst.Pix[i] = g.Y
			case 3:
				n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = n.R, n.G, n.B
			default:
				n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = n.R, n.G, n.B, n.A
			}
			i += channels
		}
	}
	return dst
}

// ToStdImage converts the buffer into an image.Image suitable for the standard encoders.
func (img *Image) ToStdImage() image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)

	if img.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, img.Pix)
		return gray
	}

	out := image.NewNRGBA(rect)
	src := 0
	for dst := 0; dst < len(out.Pix); dst += 4 {
		out.Pix[dst] = img.Pix[src]
		out.Pix[dst+1] = img.Pix[src+1]
		out.Pix[dst+2] = img.Pix[src+2]
		if img.Channels == 4 {
			out.Pix[dst+3] = img.Pix[src+3]
		} else {
			out.Pix[dst+3] = 0xff
		}
		src += img.Channels
	}
	return out
}
