package commands

import "github.com/spf13/cobra"

func (c *CLI) newNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the available nodes and their inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Nodes(cmd.OutOrStdout())
		},
	}
}
