package img2img

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/engine/cache"
	"go.trai.ch/zerr"
)

// Defaults of the optional inputs.
const (
	DefaultDenoisingStrength = 0.75
	DefaultSteps             = 20
	DefaultCFGScale          = 7.0
	DefaultSize              = 512
)

// Inputs are the captured inputs of one invocation.
type Inputs struct {
	Image             *domain.Image
	Prompt            domain.Optional[string]
	NegativePrompt    domain.Optional[string]
	DenoisingStrength float64
	Seed              domain.Seed
	Steps             int
	Sampler           domain.SamplerName
	CFGScale          float64
	ResizeMode        domain.ResizeMode
	Width             int
	Height            int
	Tiling            bool
}

// DefaultInputs returns the inputs with every default applied and no image.
func DefaultInputs() Inputs {
	return Inputs{
		DenoisingStrength: DefaultDenoisingStrength,
		Steps:             DefaultSteps,
		Sampler:           domain.DefaultSampler,
		CFGScale:          DefaultCFGScale,
		ResizeMode:        domain.DefaultResizeMode,
		Width:             DefaultSize,
		Height:            DefaultSize,
	}
}

// Validate checks that the image is set and every value is in range.
func (in *Inputs) Validate() error {
	if in.Image == nil {
		return invalidInput(KeyImage, nil, "image is required")
	}
	if err := in.Image.Validate(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidInput.Error()), "input", KeyImage)
	}
	if !inRange(in.DenoisingStrength, MinDenoisingStrength, MaxDenoisingStrength) {
		return invalidInput(KeyDenoisingStrength, in.DenoisingStrength, "must be between 0 and 1")
	}
	if in.Steps < MinSteps || in.Steps > MaxSteps {
		return invalidInput(KeySteps, in.Steps, "must be between 1 and 150")
	}
	if !in.Sampler.IsValid() {
		return invalidInput(KeySampler, in.Sampler, "unknown sampler")
	}
	if !inRange(in.CFGScale, MinCFGScale, MaxCFGScale) {
		return invalidInput(KeyCFGScale, in.CFGScale, "must be between 1 and 20")
	}
	if !in.ResizeMode.IsValid() {
		return invalidInput(KeyResizeMode, in.ResizeMode.Value(), "unknown resize mode")
	}
	if in.Width < domain.MinSize || in.Width > domain.MaxSize {
		return invalidInput(KeyWidth, in.Width, "must be between 64 and 2048")
	}
	if in.Height < domain.MinSize || in.Height > domain.MaxSize {
		return invalidInput(KeyHeight, in.Height, "must be between 64 and 2048")
	}
	return nil
}

// Fingerprint identifies the invocation by the node and every input as given,
// before the size is quantized.
func (in *Inputs) Fingerprint() domain.Fingerprint {
	return cache.NewKey(NodeID).
		Image(KeyImage, in.Image).
		OptionalText(KeyPrompt, in.Prompt).
		OptionalText(KeyNegativePrompt, in.NegativePrompt).
		Float(KeyDenoisingStrength, in.DenoisingStrength).
		Int(KeySeed, int64(in.Seed)).
		Int(KeySteps, int64(in.Steps)).
		Text(KeySampler, string(in.Sampler)).
		Float(KeyCFGScale, in.CFGScale).
		Text(KeyResizeMode, in.ResizeMode.Value()).
		Int(KeyWidth, int64(in.Width)).
		Int(KeyHeight, int64(in.Height)).
		Bool(KeyTiling, in.Tiling).
		Sum()
}

// rawInputs mirrors Inputs with pointers so absent keys keep their defaults.
type rawInputs struct {
	Prompt            *string             `mapstructure:"prompt"`
	NegativePrompt    *string             `mapstructure:"negative_prompt"`
	DenoisingStrength *float64            `mapstructure:"denoising_strength"`
	Seed              *int64              `mapstructure:"seed"`
	Steps             *int                `mapstructure:"steps"`
	Sampler           *domain.SamplerName `mapstructure:"sampler_name"`
	CFGScale          *float64            `mapstructure:"cfg_scale"`
	ResizeMode        *domain.ResizeMode  `mapstructure:"resize_mode"`
	Width             *int                `mapstructure:"width"`
	Height            *int                `mapstructure:"height"`
	Tiling            *bool               `mapstructure:"tiling"`
}

// Decode converts loosely typed inputs into Inputs. The image must already be decoded.
// Enum values are accepted as wire value, key or label. Unknown keys are rejected.
func Decode(values map[string]any) (Inputs, error) {
	in := DefaultInputs()

	rest := make(map[string]any, len(values))
	for k, v := range values {
		if k == KeyImage {
			continue
		}
		rest[k] = v
	}

	if v, ok := values[KeyImage]; ok && v != nil {
		img, ok := v.(*domain.Image)
		if !ok {
			err := zerr.With(domain.ErrInputDecodeFailed, "input", KeyImage)
			return in, zerr.With(err, "reason", "image must be decoded before it is passed to the node")
		}
		in.Image = img
	}

	var raw rawInputs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			wholeNumberHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused: true,
		Result:      &raw,
	})
	if err != nil {
		return in, zerr.Wrap(err, domain.ErrInputDecodeFailed.Error())
	}
	if err := decoder.Decode(rest); err != nil {
		return in, zerr.Wrap(err, domain.ErrInputDecodeFailed.Error())
	}

	in.Prompt = domain.OptionalFromPtr(raw.Prompt)
	in.NegativePrompt = domain.OptionalFromPtr(raw.NegativePrompt)
	if raw.DenoisingStrength != nil {
		in.DenoisingStrength = *raw.DenoisingStrength
	}
	if raw.Seed != nil {
		in.Seed = domain.Seed(*raw.Seed)
	}
	if raw.Steps != nil {
		in.Steps = *raw.Steps
	}
	if raw.Sampler != nil {
		in.Sampler = *raw.Sampler
	}
	if raw.CFGScale != nil {
		in.CFGScale = *raw.CFGScale
	}
	if raw.ResizeMode != nil {
		in.ResizeMode = *raw.ResizeMode
	}
	if raw.Width != nil {
		in.Width = *raw.Width
	}
	if raw.Height != nil {
		in.Height = *raw.Height
	}
	if raw.Tiling != nil {
		in.Tiling = *raw.Tiling
	}

	return in, nil
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// wholeNumberHook rejects fractional floats for integer targets instead of truncating them.
func wholeNumberHook(_, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}

	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("expected a whole number but got %v", f)
	}
	return data, nil
}

func invalidInput(key string, value any, reason string) error {
	err := zerr.With(domain.ErrInvalidInput, "input", key)
	if value != nil {
		err = zerr.With(err, "value", value)
	}
	return zerr.With(err, "reason", reason)
}
