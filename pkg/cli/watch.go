package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/c3i/c3i/internal/engine"
	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/process"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var opts engine.Options
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run build cycles on an interval and when the settings change",
		Long: `Run a build cycle immediately, then again every --interval and whenever the
settings file is saved. Cycles never overlap; a failed cycle is logged and the
next one runs as scheduled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), opts, interval)
		},
	}

	bindRunFlags(cmd, &opts)
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Minute, "time between cycles, 0 to run only on settings changes")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts engine.Options, interval time.Duration) error {
	pm := process.NewManager(c.logger)
	ctx = pm.Start(ctx)
	defer pm.Stop()

	path := c.config.resolve(c.config.ConfigFile)
	if _, err := c.loadConfig(); err != nil {
		return err
	}

	watcher := config.NewReloadWatcher(path, c.logger)
	events := make(chan config.ReloadEvent, 1)

	group, ctx := engine.NewSafeGroup(ctx, c.logger)
	pm.RegisterShutdownHandler(func() {
		c.printInfo("Stopped watching")
	})

	group.Go(func() error {
		return watcher.Watch(ctx, events)
	})
	group.Go(func() error {
		return engine.Loop(ctx, interval, events, func(ctx context.Context) error {
			result, err := c.runCycle(ctx, opts)
			if err != nil {
				return err
			}
			c.printSummary(result)
			return nil
		}, c.logger)
	})

	c.printInfo(fmt.Sprintf("Watching %s", path))
	if interval > 0 {
		c.logger.Info("Scheduled cycles", logger.WithField("interval", interval.String()))
	}

	return group.Wait()
}
