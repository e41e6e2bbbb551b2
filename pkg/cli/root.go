// Package cli provides the command-line interface for c3i
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/c3i/c3i/internal/engine"
	"github.com/c3i/c3i/pkg/logger"
)

// CLI holds the command tree and its settings, without package globals
type CLI struct {
	config   *Config
	rootCmd  *cobra.Command
	logger   logger.Logger
	output   io.Writer
	errorOut io.Writer
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(config *Config) *CLI {
	if config == nil {
		config = NewConfig()
	}

	cli := &CLI{
		config:   config,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}

	cli.setupCommands()
	return cli
}

// NewCLIWithOutput creates a CLI with custom output writers (for testing)
func NewCLIWithOutput(config *Config, output, errorOut io.Writer) *CLI {
	cli := NewCLI(config)
	cli.output = output
	cli.errorOut = errorOut
	cli.rootCmd.SetOut(output)
	cli.rootCmd.SetErr(errorOut)
	return cli
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	return c.ExecuteContext(context.Background(), args)
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

// Execute runs the CLI against the process arguments
func Execute(version string) error {
	cfg := NewConfig()
	cfg.Version = version
	return NewCLI(cfg).Execute(os.Args[1:])
}

func (c *CLI) setupCommands() {
	var opts engine.Options

	c.rootCmd = &cobra.Command{
		Use:   "c3i",
		Short: "Continuous integration for ComputerCraft branches and pull requests",
		Long: `c3i merges each configured branch combination onto the mainline, builds the
ones whose branches changed, publishes the jars in a Maven layout and renders
an HTML page listing every build.

Running c3i without a subcommand is the same as "c3i run".`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initializeLogger,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOnce(cmd.Context(), opts)
		},
	}

	c.setupFlags()
	bindRunFlags(c.rootCmd, &opts)

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("c3i {{.Version}}\n")

	c.rootCmd.AddCommand(c.newRunCmd())
	c.rootCmd.AddCommand(c.newInitCmd())
	c.rootCmd.AddCommand(c.newListCmd())
	c.rootCmd.AddCommand(c.newWatchCmd())
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", c.config.ConfigFile, "settings file, JSON or YAML")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", c.config.Verbosity, "log level (debug, info, warn, error)")
}

func (c *CLI) initializeLogger(cmd *cobra.Command, args []string) error {
	if c.logger != nil {
		return nil
	}
	if c.output == os.Stdout {
		c.logger = logger.CreateLogger("", c.config.Verbosity)
	} else {
		c.logger = logger.CreateLoggerWithOutput(c.config.Verbosity, c.output)
	}
	return nil
}

// Helper methods for console output

func (c *CLI) printSuccess(message string) {
	fmt.Fprintf(c.output, "%s %s\n", color.GreenString("[c3i]"), message)
}

func (c *CLI) printError(message string) {
	fmt.Fprintf(c.errorOut, "%s %s\n", color.RedString("[c3i]"), message)
}

func (c *CLI) printInfo(message string) {
	fmt.Fprintf(c.output, "%s %s\n", color.CyanString("[c3i]"), message)
}

func (c *CLI) printWarning(message string) {
	fmt.Fprintf(c.output, "%s %s\n", color.YellowString("[c3i]"), message)
}
