// Package commands implements the CLI commands for cleanbuild.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/cleanbuild/internal/app"
	"go.trai.ch/cleanbuild/internal/build"
	"go.trai.ch/zerr"
)

// Log formats accepted by --log-format.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// CLI represents the command line interface for cleanbuild.
type CLI struct {
	app       Application
	formatter LogFormatter
	rootCmd   *cobra.Command

	opts      app.RunOptions
	logFormat string
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Plan(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.RunOptions) error
}

// LogFormatter switches the logger between pretty and JSON output.
type LogFormatter interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
// formatter may be nil, in which case --log-format is validated but has no effect.
func New(a Application, formatter LogFormatter) *CLI {
	rootCmd := &cobra.Command{
		Use:   "cleanbuild",
		Short: "Clean configure, build and test of a CMake project",
		Long: "cleanbuild removes the build directory, then runs the configure, build and test\n" +
			"steps of a CMake project in order. The first failing step aborts the run.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"
	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:       a,
		formatter: formatter,
		rootCmd:   rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.opts.Root, "root", "C", "", "Project root (default: discovered from the working directory)")
	flags.StringVarP(&c.opts.ConfigPath, "config", "c", "", "Config file (default: cleanbuild.yaml in the project root)")
	flags.StringVar(&c.logFormat, "log-format", LogFormatPretty, "Log output format (pretty or json)")

	rootCmd.Flags().BoolVar(&c.opts.DryRun, "dry-run", false, "Print the commands without running them")
	rootCmd.Flags().StringVar(&c.opts.ReportPath, "report", "", "Write a JSON run report to this file")

	rootCmd.PersistentPreRunE = c.applyLogFormat
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return c.app.Run(cmd.Context(), c.opts)
	}

	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) applyLogFormat(_ *cobra.Command, _ []string) error {
	switch c.logFormat {
	case LogFormatPretty, LogFormatJSON:
	default:
		return zerr.With(zerr.New("unsupported log format"), "format", c.logFormat)
	}
	if c.formatter != nil {
		c.formatter.SetJSON(c.logFormat == LogFormatJSON)
	}
	return nil
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

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
