package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sdnode/internal/app"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/nodes/img2img"
)

func (c *CLI) newImg2ImgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "img2img <input> <output>",
		Short: "Modify an image using Automatic1111",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			inputs := make(map[string]any)

			// Prompts are optional: an unset flag and an empty one are different inputs.
			if flags.Changed("prompt") {
				inputs[img2img.KeyPrompt], _ = flags.GetString("prompt")
			}
			if flags.Changed("negative-prompt") {
				inputs[img2img.KeyNegativePrompt], _ = flags.GetString("negative-prompt")
			}

			inputs[img2img.KeyDenoisingStrength], _ = flags.GetFloat64("denoise")
			inputs[img2img.KeySeed], _ = flags.GetInt64("seed")
			inputs[img2img.KeySteps], _ = flags.GetInt("steps")
			inputs[img2img.KeySampler], _ = flags.GetString("sampler")
			inputs[img2img.KeyCFGScale], _ = flags.GetFloat64("cfg-scale")
			inputs[img2img.KeyResizeMode], _ = flags.GetString("resize-mode")
			inputs[img2img.KeyWidth], _ = flags.GetInt("width")
			inputs[img2img.KeyHeight], _ = flags.GetInt("height")
			inputs[img2img.KeyTiling], _ = flags.GetBool("tiling")

			outputMode, _ := flags.GetString("output-mode")

			return c.app.Img2Img(cmd.Context(), app.Img2ImgOptions{
				Input:      args[0],
				Output:     args[1],
				Inputs:     inputs,
				OutputMode: outputMode,
			})
		},
	}

	cmd.Flags().StringP("prompt", "p", "", "Prompt")
	cmd.Flags().StringP("negative-prompt", "n", "", "Negative prompt")
	cmd.Flags().Float64P("denoise", "d", img2img.DefaultDenoisingStrength, "Denoising strength, between 0 and 1")
	cmd.Flags().Int64P("seed", "s", 0, "Seed, reduced to 32 bits")
	cmd.Flags().Int("steps", img2img.DefaultSteps, "Sampling steps, between 1 and 150")
	cmd.Flags().String("sampler", string(domain.DefaultSampler), "Sampler name")
	cmd.Flags().Float64("cfg-scale", img2img.DefaultCFGScale, "CFG scale, between 1 and 20")
	cmd.Flags().String("resize-mode", domain.DefaultResizeMode.Value(), "Resize mode: 0 just resize, 1 crop and resize, 2 resize and fill, 3 latent upscale")
	cmd.Flags().IntP("width", "W", img2img.DefaultSize, "Width, rounded down to a multiple of 8")
	cmd.Flags().IntP("height", "H", img2img.DefaultSize, "Height, rounded down to a multiple of 8")
	cmd.Flags().Bool("tiling", false, "Generate seamless edges")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, progress, or linear")

	return cmd
}
