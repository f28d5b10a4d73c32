// Package commands implements the CLI commands for assetpipe.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/assetpipe/internal/app"
)

const prodFlag = "prod"

// CLI represents the command line interface for assetpipe.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.RunOptions) error
	Dev(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app. Without a subcommand
// the root command runs the dev pipeline.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "assetpipe",
		Short:         "Compile, optimize and serve front-end assets",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runDev,
	}

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"
	rootCmd.PersistentFlags().Bool(prodFlag, false, "Minify output and drop source maps")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(c.newDevCmd())
	rootCmd.AddCommand(c.newBuildCmd())

	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	prod, _ := cmd.Flags().GetBool(prodFlag)
	return app.RunOptions{Production: prod}
}
