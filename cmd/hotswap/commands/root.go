// Package commands implements the CLI commands for hotswap.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hotswap/internal/adapters/config"
	"go.trai.ch/hotswap/internal/adapters/detector"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/build"
	"go.trai.ch/hotswap/internal/core/ports"
)

// App is the application surface driven by the commands.
type App interface {
	Watch(ctx context.Context, opts app.WatchOptions) error
	Check(ctx context.Context, dir string) (*app.CheckReport, error)
	Files(ctx context.Context, dir string) ([]app.FileEntry, error)
}

// logSink is implemented by loggers whose output can be reconfigured.
type logSink interface {
	SetJSON(enable bool)
	SetFile(path string)
}

// CLI represents the command line interface for hotswap.
type CLI struct {
	app      App
	logger   ports.Logger
	settings *config.Settings
	values   config.Values
	dir      string
	rootCmd  *cobra.Command
}

// New creates a new CLI instance. Settings flags are bound to settings.
func New(a App, logger ports.Logger, settings *config.Settings) (*CLI, error) {
	rootCmd := &cobra.Command{
		Use:           "hotswap",
		Short:         "Hot-reload simulation definition files while the simulation runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:      a,
		logger:   logger,
		settings: settings,
		rootCmd:  rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "Directory to search for mod.yaml or mod.toml")
	if err := settings.BindFlags(rootCmd.PersistentFlags(), config.LogOptions); err != nil {
		return nil, err
	}
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return c.configure()
	}

	watchCmd, err := c.newWatchCmd()
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newFilesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c, nil
}

// configure resolves the settings once flags are parsed and applies the logging ones.
func (c *CLI) configure() error {
	vals, err := c.settings.Values()
	if err != nil {
		return err
	}
	c.values = vals

	sink, ok := c.logger.(logSink)
	if !ok {
		return nil
	}
	format := detector.ResolveLogFormat(detector.DetectLogFormat(), vals.LogFormat)
	sink.SetJSON(format == detector.FormatJSON)
	if vals.LogFile != "" {
		sink.SetFile(vals.LogFile)
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

// SetOutput redirects command output and errors. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
