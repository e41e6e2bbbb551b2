package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/c3i/c3i/internal/engine"
	"github.com/c3i/c3i/pkg/changes"
	"github.com/c3i/c3i/pkg/state"
)

func (c *CLI) newListCmd() *cobra.Command {
	var fetch bool
	var noPRs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configurations and what the next run would do",
		Long: `Plan the next run without building. The working tree and its remotes are
left as they are, so a pull request whose remote was never added by a run is
listed as missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), engine.Options{NoUpdate: !fetch, NoPRs: noPRs})
		},
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "fetch the remotes before planning")
	cmd.Flags().BoolVarP(&noPRs, "no-prs", "P", false, "do not discover pull requests")

	return cmd
}

func (c *CLI) runList(ctx context.Context, opts engine.Options) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ws, err := c.acquire(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.release(ws)

	deps := engine.NewDependencyFactory(cfg, c.logger).CreateWithOverrides(ctx, ws, c.config.Overrides)
	e, err := engine.New(cfg, deps, c.logger)
	if err != nil {
		return err
	}

	decisions, err := e.Plan(ctx, opts)
	if err != nil {
		return err
	}

	cache, err := deps.Store.Load()
	if err != nil {
		return err
	}

	c.printDecisions(decisions, cache)
	return nil
}

func (c *CLI) printDecisions(decisions []changes.Decision, cache *state.Cache) {
	w := tabwriter.NewWriter(c.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBRANCHES\tLAST BUILD\tNEXT RUN")
	fmt.Fprintln(w, "----\t--------\t----------\t--------")

	for _, decision := range decisions {
		cfg := decision.Configuration

		branches := "-"
		if len(cfg.Branches) > 0 {
			branches = strings.Join(cfg.Branches, ", ")
		}

		lastBuild := "-"
		if record, ok := cache.Record(cfg.Name); ok {
			lastBuild = record.FullVersion()
		}

		next := string(decision.Action)
		switch decision.Action {
		case changes.ActionBuild:
			next = color.YellowString("build (%s)", decision.Reason)
		case changes.ActionMissing:
			next = color.RedString("missing %s", strings.Join(decision.Missing, ", "))
		case changes.ActionUpToDate:
			next = color.GreenString("%s", next)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cfg.Name, branches, lastBuild, next)
	}

	w.Flush()
}
