package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c3i/c3i/internal/engine"
	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/process"
	"github.com/c3i/c3i/pkg/types"
	"github.com/c3i/c3i/pkg/utils"
	"github.com/c3i/c3i/pkg/vcs"
)

func (c *CLI) newRunCmd() *cobra.Command {
	var opts engine.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one build cycle",
		Long: `Fetch the remotes, rebuild every configuration whose branches changed since
the last run, publish the results and regenerate the HTML page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOnce(cmd.Context(), opts)
		},
	}

	bindRunFlags(cmd, &opts)
	return cmd
}

func bindRunFlags(cmd *cobra.Command, opts *engine.Options) {
	flags := cmd.Flags()
	flags.BoolVarP(&opts.Force, "force", "f", false, "rebuild every configuration")
	flags.BoolVarP(&opts.NoUpdate, "no-update", "U", false, "do not fetch the remotes")
	flags.BoolVarP(&opts.NoBuild, "no-build", "B", false, "do not build, only record refs and render the page")
	flags.BoolVarP(&opts.NoPRs, "no-prs", "P", false, "do not discover pull requests")
	flags.StringVar(&opts.Dump, "dump", "", "write the report context to this file (.json or .yaml)")
}

func (c *CLI) runOnce(ctx context.Context, opts engine.Options) error {
	pm := process.NewManager(c.logger)
	ctx = pm.Start(ctx)
	defer pm.Stop()

	result, err := c.runCycle(ctx, opts)
	if err != nil {
		return err
	}

	c.printSummary(result)
	return nil
}

// runCycle loads the settings, takes the workspace and runs the engine once.
// The workspace lock is held only for the duration of the cycle.
func (c *CLI) runCycle(ctx context.Context, opts engine.Options) (*engine.Result, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	ws, err := c.acquire(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer c.release(ws)

	deps := engine.NewDependencyFactory(cfg, c.logger).CreateWithOverrides(ctx, ws, c.config.Overrides)
	e, err := engine.New(cfg, deps, c.logger)
	if err != nil {
		return nil, err
	}

	if opts.Dump != "" {
		opts.Dump = c.config.resolve(opts.Dump)
	}
	return e.Run(ctx, opts)
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := c.config.manager().LoadConfig(c.config.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (c *CLI) acquire(ctx context.Context, cfg *config.Config) (*vcs.Workspace, error) {
	return vcs.Acquire(ctx, vcs.Options{
		Path:     cfg.Path,
		Upstream: cfg.Upstream,
		Branch:   cfg.MainlineBranch(),
		Logger:   c.logger,
	})
}

func (c *CLI) release(ws *vcs.Workspace) {
	if err := ws.Release(); err != nil {
		c.logger.Warn("Failed to release workspace", logger.WithField("error", err))
	}
}

func (c *CLI) printSummary(result *engine.Result) {
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case types.BuildStatusRecorded:
			c.printSuccess(fmt.Sprintf("%s %s (%s)", outcome.Configuration, outcome.Version, utils.FormatDuration(outcome.Duration)))
		case types.BuildStatusFailed:
			c.printError(fmt.Sprintf("%s failed: %v", outcome.Configuration, outcome.Err))
		}
	}
	c.printInfo(fmt.Sprintf("%d built, %d failed, %d configurations in %s",
		result.Built(), result.Failed(), len(result.Configurations), utils.FormatDuration(result.Duration)))
}
