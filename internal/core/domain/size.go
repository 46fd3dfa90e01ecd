package domain

// SizeMultiple is the pixel granularity required by the latent space of the Stable Diffusion model.
const SizeMultiple = 8

// Bounds for the width and height inputs of the Stable Diffusion nodes.
const (
	MinSize = 64
	MaxSize = 2048
)

// NearestValid rounds a pixel dimension down to the nearest multiple of SizeMultiple.
func NearestValid(n int) int {
	if n <= 0 {
		return 0
	}
	return (n / SizeMultiple) * SizeMultiple
}

// NearestValidSize quantizes a width and height pair with NearestValid.
func NearestValidSize(width, height int) (int, int) {
	return NearestValid(width), NearestValid(height)
}
