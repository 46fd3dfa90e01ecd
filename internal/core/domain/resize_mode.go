package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ResizeMode controls how the init image is fitted to the requested size.
type ResizeMode int

// Resize modes supported by the Automatic1111 backend.
const (
	ResizeJust ResizeMode = iota
	ResizeCropAndResize
	ResizeAndFill
	ResizeLatentUpscale
	DefaultResizeMode = ResizeJust
)

var resizeModeLabels = map[ResizeMode]string{
	ResizeJust:          "Just resize",
	ResizeCropAndResize: "Crop and resize",
	ResizeAndFill:       "Resize and fill",
	ResizeLatentUpscale: "Just resize (latent upscale)",
}

var resizeModeKeys = map[ResizeMode]string{
	ResizeJust:          "just_resize",
	ResizeCropAndResize: "crop_and_resize",
	ResizeAndFill:       "resize_and_fill",
	ResizeLatentUpscale: "latent_upscale",
}

// ResizeModes returns all resize modes in display order.
func ResizeModes() []ResizeMode {
	return []ResizeMode{ResizeJust, ResizeCropAndResize, ResizeAndFill, ResizeLatentUpscale}
}

// Value returns the wire value sent to the backend.
func (m ResizeMode) Value() string {
	return strconv.Itoa(int(m))
}

// Label returns the display label of the resize mode.
func (m ResizeMode) Label() string {
	if l, ok := resizeModeLabels[m]; ok {
		return l
	}
	return m.Value()
}

// Key returns the identifier form of the resize mode.
func (m ResizeMode) Key() string {
	return resizeModeKeys[m]
}

// IsValid reports whether m is part of the resize mode set.
func (m ResizeMode) IsValid() bool {
	_, ok := resizeModeLabels[m]
	return ok
}

// String implements fmt.Stringer.
func (m ResizeMode) String() string {
	return m.Label()
}

// ParseResizeMode accepts a wire value, key or label, case-insensitively.
func ParseResizeMode(v string) (ResizeMode, error) {
	needle := strings.TrimSpace(v)
	for _, m := range ResizeModes() {
		if needle == m.Value() ||
			strings.EqualFold(needle, m.Key()) ||
			strings.EqualFold(needle, m.Label()) {
			return m, nil
		}
	}
	return 0, zerr.With(ErrUnknownResizeMode, "resize_mode", v)
}

// MarshalText implements encoding.TextMarshaler using the wire value.
func (m ResizeMode) MarshalText() ([]byte, error) {
	return []byte(m.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ResizeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseResizeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
