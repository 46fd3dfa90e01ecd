package img2img

import "go.trai.ch/sdnode/internal/core/domain"

// Input keys, as used in job files.
const (
	KeyImage             = "image"
	KeyPrompt            = "prompt"
	KeyNegativePrompt    = "negative_prompt"
	KeyDenoisingStrength = "denoising_strength"
	KeySeed              = "seed"
	KeySteps             = "steps"
	KeySampler           = "sampler_name"
	KeyCFGScale          = "cfg_scale"
	KeyResizeMode        = "resize_mode"
	KeyWidth             = "width"
	KeyHeight            = "height"
	KeyTiling            = "tiling"
)

// Input ranges.
const (
	MinDenoisingStrength = 0.0
	MaxDenoisingStrength = 1.0
	MinSteps             = 1
	MaxSteps             = 150
	MinCFGScale          = 1.0
	MaxCFGScale          = 20.0
)

func schema() domain.NodeSchema {
	samplers := make([]domain.EnumOption, 0, len(domain.SamplerNames()))
	for _, s := range domain.SamplerNames() {
		samplers = append(samplers, domain.EnumOption{Value: string(s), Label: s.Label()})
	}

	resizeModes := make([]domain.EnumOption, 0, len(domain.ResizeModes()))
	for _, m := range domain.ResizeModes() {
		resizeModes = append(resizeModes, domain.EnumOption{Value: m.Value(), Label: m.Label()})
	}

	return domain.NodeSchema{
		ID:          NodeID,
		Name:        "Image to Image",
		Description: "Modify an image using Automatic1111",
		Category:    "External Stable Diffusion",
		SubCategory: "Automatic1111",
		Icon:        "MdChangeCircle",
		Inputs: []domain.InputSpec{
			{ID: 0, Key: KeyImage, Label: "Image", Kind: domain.InputImage},
			{ID: 1, Key: KeyPrompt, Label: "Prompt", Kind: domain.InputTextArea, Optional: true},
			{ID: 2, Key: KeyNegativePrompt, Label: "Negative Prompt", Kind: domain.InputTextArea, Optional: true},
			{
				ID: 3, Key: KeyDenoisingStrength, Label: "Denoising Strength", Kind: domain.InputSlider,
				Default: DefaultDenoisingStrength, Min: MinDenoisingStrength, Max: MaxDenoisingStrength, Step: 0.01,
			},
			{ID: 4, Key: KeySeed, Label: "Seed", Kind: domain.InputSeed, Default: int64(0), Group: "seed"},
			{
				ID: 5, Key: KeySteps, Label: "Steps", Kind: domain.InputSlider,
				Default: DefaultSteps, Min: MinSteps, Max: MaxSteps, Step: 1,
			},
			{
				ID: 6, Key: KeySampler, Label: "Sampler Name", Kind: domain.InputEnum,
				Default: string(domain.DefaultSampler), Options: samplers,
			},
			{
				ID: 7, Key: KeyCFGScale, Label: "CFG Scale", Kind: domain.InputSlider,
				Default: DefaultCFGScale, Min: MinCFGScale, Max: MaxCFGScale, Step: 0.1,
			},
			{
				ID: 10, Key: KeyResizeMode, Label: "Resize Mode", Kind: domain.InputEnum,
				Default: domain.DefaultResizeMode.Value(), Options: resizeModes,
			},
			{
				ID: 8, Key: KeyWidth, Label: "Width", Kind: domain.InputSlider,
				Default: DefaultSize, Min: domain.MinSize, Max: domain.MaxSize, Step: domain.SizeMultiple,
			},
			{
				ID: 9, Key: KeyHeight, Label: "Height", Kind: domain.InputSlider,
				Default: DefaultSize, Min: domain.MinSize, Max: domain.MaxSize, Step: domain.SizeMultiple,
			},
			{ID: 11, Key: KeyTiling, Label: "Seamless Edges", Kind: domain.InputBool, Default: false},
		},
		Outputs: []domain.OutputSpec{
			{
				ID:       0,
				Label:    "Image",
				Kind:     domain.InputImage,
				Channels: domain.RGBChannels,
				Shape:    "width: nearest_valid(Input8), height: nearest_valid(Input9)",
			},
		},
	}
}
