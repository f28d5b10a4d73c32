package commands

import "github.com/spf13/cobra"

func (c *CLI) newDevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Build, serve with live reload and rebuild on change",
		Args:  cobra.NoArgs,
		RunE:  c.runDev,
	}
}

func (c *CLI) runDev(cmd *cobra.Command, _ []string) error {
	return c.app.Dev(cmd.Context(), runOptions(cmd))
}
