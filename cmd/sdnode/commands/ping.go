package commands

import "github.com/spf13/cobra"

func (c *CLI) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the connection to the Stable Diffusion backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Ping(cmd.Context())
		},
	}
}
