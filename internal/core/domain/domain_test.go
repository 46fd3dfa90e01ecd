package domain_test

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/internal/core/domain"
)

func TestNearestValid(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 500, want: 496},
		{in: 501, want: 496},
		{in: 503, want: 496},
		{in: 504, want: 504},
		{in: 64, want: 64},
		{in: 65, want: 64},
		{in: 71, want: 64},
		{in: 72, want: 72},
		{in: 2048, want: 2048},
		{in: 2047, want: 2040},
		{in: 7, want: 0},
		{in: 0, want: 0},
		{in: -9, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NearestValid(tt.in), "NearestValid(%d)", tt.in)
	}
}

func TestNearestValidSize(t *testing.T) {
	w, h := domain.NearestValidSize(500, 500)
	assert.Equal(t, 496, w)
	assert.Equal(t, 496, h)

	w, h = domain.NearestValidSize(640, 519)
	assert.Equal(t, 640, w)
	assert.Equal(t, 512, h)
}

func TestSeed_ToU32(t *testing.T) {
	tests := []struct {
		name string
		seed domain.Seed
		want uint32
	}{
		{name: "zero", seed: 0, want: 0},
		{name: "small", seed: 42, want: 42},
		{name: "max u32", seed: math.MaxUint32, want: math.MaxUint32},
		{name: "wraps above u32", seed: math.MaxUint32 + 1, want: 0},
		{name: "negative wraps", seed: -1, want: math.MaxUint32},
		{name: "large", seed: 1<<40 + 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seed.ToU32())
		})
	}
}

func TestOptional(t *testing.T) {
	absent := domain.None[string]()
	assert.False(t, absent.IsPresent())
	assert.Empty(t, absent.OrElse(""))
	assert.Equal(t, "fallback", absent.OrElse("fallback"))

	var zero domain.Optional[string]
	assert.Equal(t, absent, zero)

	present := domain.Some("a cat")
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, "a cat", v)
	assert.Equal(t, "a cat", present.OrElse("fallback"))

	empty := domain.Some("")
	assert.True(t, empty.IsPresent())
	assert.NotEqual(t, absent, empty)

	s := "from pointer"
	assert.Equal(t, domain.Some(s), domain.OptionalFromPtr(&s))
	assert.Equal(t, domain.None[string](), domain.OptionalFromPtr[string](nil))
}

func TestSamplerName_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want domain.SamplerName
	}{
		{in: "Euler a", want: domain.SamplerEulerA},
		{in: "euler_a", want: domain.SamplerEulerA},
		{in: "EULER", want: domain.SamplerEuler},
		{in: "DPM++ 2M Karras", want: domain.SamplerDPMPP2MKarras},
		{in: "dpmpp_2m_karras", want: domain.SamplerDPMPP2MKarras},
		{in: " DDIM ", want: domain.SamplerDDIM},
	}

	for _, tt := range tests {
		got, err := domain.ParseSamplerName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := domain.ParseSamplerName("Euler b")
	require.ErrorContains(t, err, domain.ErrUnknownSampler.Error())
}

func TestSamplerName_Table(t *testing.T) {
	names := domain.SamplerNames()
	require.Len(t, names, 19)
	assert.Equal(t, domain.SamplerEulerA, names[0])
	assert.Equal(t, domain.SamplerEuler, domain.DefaultSampler)

	seen := make(map[string]bool)
	for _, s := range names {
		assert.True(t, s.IsValid())
		assert.NotEmpty(t, s.Label())
		assert.False(t, seen[s.Key()], "duplicate key %q", s.Key())
		seen[s.Key()] = true
	}

	names[0] = "mutated"
	assert.Equal(t, domain.SamplerEulerA, domain.SamplerNames()[0])
	assert.False(t, domain.SamplerName("Euler b").IsValid())
}

func TestSamplerName_Text(t *testing.T) {
	text, err := domain.SamplerDPMPPSDE.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "DPM++ SDE", string(text))

	var s domain.SamplerName
	require.NoError(t, s.UnmarshalText([]byte("lms_karras")))
	assert.Equal(t, domain.SamplerLMSKarras, s)

	require.Error(t, s.UnmarshalText([]byte("nope")))
	assert.Equal(t, domain.SamplerLMSKarras, s, "failed unmarshal must leave the value untouched")
}

func TestResizeMode(t *testing.T) {
	assert.Equal(t, domain.ResizeJust, domain.DefaultResizeMode)
	assert.Equal(t, "0", domain.ResizeJust.Value())
	assert.Equal(t, "3", domain.ResizeLatentUpscale.Value())
	assert.Equal(t, "Just resize (latent upscale)", domain.ResizeLatentUpscale.Label())
	assert.Equal(t, "Crop and resize", domain.ResizeCropAndResize.String())
	assert.False(t, domain.ResizeMode(7).IsValid())

	tests := []struct {
		in   string
		want domain.ResizeMode
	}{
		{in: "0", want: domain.ResizeJust},
		{in: "2", want: domain.ResizeAndFill},
		{in: "crop_and_resize", want: domain.ResizeCropAndResize},
		{in: "resize and fill", want: domain.ResizeAndFill},
		{in: "Just resize (latent upscale)", want: domain.ResizeLatentUpscale},
	}
	for _, tt := range tests {
		got, err := domain.ParseResizeMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := domain.ParseResizeMode("4")
	require.ErrorContains(t, err, domain.ErrUnknownResizeMode.Error())

	text, err := domain.ResizeAndFill.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2", string(text))

	var m domain.ResizeMode
	require.NoError(t, m.UnmarshalText([]byte("latent_upscale")))
	assert.Equal(t, domain.ResizeLatentUpscale, m)
}

func TestImage_Validate(t *testing.T) {
	var nilImg *domain.Image
	require.ErrorContains(t, nilImg.Validate(), domain.ErrImageInvalid.Error())

	require.NoError(t, domain.NewImage(4, 2, 3).Validate())
	require.NoError(t, domain.NewImage(4, 2, 1).Validate())
	require.NoError(t, domain.NewImage(4, 2, 4).Validate())

	require.ErrorContains(t, domain.NewImage(4, 2, 2).Validate(), domain.ErrImageInvalid.Error())
	require.ErrorContains(t, domain.NewImage(0, 2, 3).Validate(), domain.ErrImageInvalid.Error())

	short := domain.NewImage(4, 2, 3)
	short.Pix = short.Pix[:5]
	require.ErrorContains(t, short.Validate(), domain.ErrImageInvalid.Error())
}

func TestImage_StdRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	rgb := domain.FromStdImage(src, domain.RGBChannels)
	require.NoError(t, rgb.Validate())
	w, h := rgb.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, []uint8{10, 20, 30, 200, 100, 50}, rgb.Pix)

	back, ok := rgb.ToStdImage().(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, src.Pix, back.Pix)

	gray := domain.FromStdImage(image.NewGray(image.Rect(0, 0, 3, 3)), 1)
	_, isGray := gray.ToStdImage().(*image.Gray)
	assert.True(t, isGray)
}

func TestContractViolation(t *testing.T) {
	cv := domain.NewSizeMismatch("node", 496, 512, 512, 512)
	assert.Equal(t, "expected the returned image to be 496x512px but found 512x512px instead", cv.Error())
	assert.Equal(t, "node", cv.NodeID)

	got, ok := domain.AsContractViolation(cv)
	assert.True(t, ok)
	assert.Same(t, cv, got)

	_, ok = domain.AsContractViolation("boom")
	assert.False(t, ok)
}

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:7860", cfg.Backend.BaseURL())
	assert.Equal(t, domain.StoreNone, cfg.Store.Kind)
	assert.Equal(t, domain.DefaultStorePath(), cfg.Store.Path)
	assert.Equal(t, domain.LogPretty, cfg.LogFormat)
	assert.Equal(t, domain.DefaultParallelism, cfg.Parallelism)

	cfg.Backend.Host = "::1"
	assert.Equal(t, "http://[::1]:7860", cfg.Backend.BaseURL())
}

func TestNodeSchema_Input(t *testing.T) {
	s := domain.NodeSchema{Inputs: []domain.InputSpec{{Key: "steps", Max: 150}}}
	in, ok := s.Input("steps")
	require.True(t, ok)
	assert.InDelta(t, 150, in.Max, 0)

	_, ok = s.Input("missing")
	assert.False(t, ok)
}
