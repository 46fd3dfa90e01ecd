package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sdnode/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Run the invocations of a job file",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			parallel, _ := cmd.Flags().GetInt("parallel")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), args[0], app.RunOptions{
				Parallel:   parallel,
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().IntP("parallel", "j", 0, "Maximum concurrent invocations (defaults to run.parallel)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, progress, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
