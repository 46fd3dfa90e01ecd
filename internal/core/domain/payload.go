package domain

// Img2ImgPayload is the request body of the Automatic1111 img2img endpoint.
// Text fields are plain strings so an absent prompt is sent as "" and never null.
type Img2ImgPayload struct {
	InitImages        []string `json:"init_images"`
	Prompt            string   `json:"prompt"`
	NegativePrompt    string   `json:"negative_prompt"`
	DenoisingStrength float64  `json:"denoising_strength"`
	Seed              uint32   `json:"seed"`
	Steps             int      `json:"steps"`
	SamplerName       string   `json:"sampler_name"`
	CFGScale          float64  `json:"cfg_scale"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	ResizeMode        string   `json:"resize_mode"`
	Tiling            bool     `json:"tiling"`
}

// GenerationResult is the decoded part of a generation response.
type GenerationResult struct {
	// Images are the base64 encoded images, without any data URL prefix.
	Images []string
	// Info is the raw generation info string reported by the backend.
	Info string
}
