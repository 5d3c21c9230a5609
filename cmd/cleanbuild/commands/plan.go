package commands

import "github.com/spf13/cobra"

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the commands a run would execute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Plan(cmd.Context(), c.opts)
		},
	}
}
