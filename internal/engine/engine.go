// Package engine runs the build cycle: discover configurations, detect
// changes, build and publish the dirty ones, then render the report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c3i/c3i/pkg/changes"
	"github.com/c3i/c3i/pkg/config"
	pcontext "github.com/c3i/c3i/pkg/context"
	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/packaging"
	"github.com/c3i/c3i/pkg/report"
	"github.com/c3i/c3i/pkg/state"
	"github.com/c3i/c3i/pkg/types"
	"github.com/c3i/c3i/pkg/utils"
)

// Packager versions and publishes built artifacts
type Packager interface {
	Version(artifact string, previous types.BuildRecord, hasPrevious bool) types.BuildRecord
	Publish(artifact, configuration string, record types.BuildRecord) (*packaging.Result, error)
}

// Dependencies are the collaborators of one run. PullRequests and Notifier are optional.
type Dependencies struct {
	Workspace    interfaces.Workspace
	Builder      interfaces.Builder
	Packager     Packager
	Store        *state.Store
	PullRequests interfaces.PullRequestSource
	Notifier     interfaces.BuildNotifier
}

// Options control a run
type Options struct {
	Force    bool
	NoUpdate bool
	NoBuild  bool
	NoPRs    bool
	// NoReport skips rendering the HTML page
	NoReport bool
	// Dump writes the report context to this path when set
	Dump string
}

// Outcome is the result of one configuration in a run
type Outcome struct {
	Configuration string
	Status        types.BuildStatus
	Action        changes.Action
	Reason        changes.Reason
	Version       string
	Duration      time.Duration
	Err           error
}

// Result summarizes a run
type Result struct {
	RunID          string
	Configurations []types.Configuration
	Refs           types.RefMap
	Delta          []string
	Outcomes       []Outcome
	Records        map[string]types.BuildRecord
	Duration       time.Duration
}

// Built counts configurations that were published
func (r *Result) Built() int {
	return r.count(types.BuildStatusRecorded)
}

// Failed counts configurations whose build failed
func (r *Result) Failed() int {
	return r.count(types.BuildStatusFailed)
}

func (r *Result) count(status types.BuildStatus) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// Engine drives the build cycle over an acquired workspace
type Engine struct {
	cfg    *config.Config
	deps   Dependencies
	logger logger.Logger
}

// New creates an engine. Workspace, Builder, Packager and Store are required.
func New(cfg *config.Config, deps Dependencies, log logger.Logger) (*Engine, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("config is required")
	case deps.Workspace == nil:
		return nil, errors.New("workspace dependency is required")
	case deps.Builder == nil:
		return nil, errors.New("builder dependency is required")
	case deps.Packager == nil:
		return nil, errors.New("packager dependency is required")
	case deps.Store == nil:
		return nil, errors.New("store dependency is required")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{cfg: cfg, deps: deps, logger: log}, nil
}

// cycle is the prepared state of a run before anything is built
type cycle struct {
	cache          *state.Cache
	configurations []types.Configuration
	refs           types.RefMap
	delta          map[string]bool
	decisions      []changes.Decision
}

// Plan discovers configurations and decides what would be built, without
// building. The checkout and its remotes are left untouched, so pull requests
// whose remotes were never synced by a run are reported as missing. Remotes
// are fetched unless NoUpdate is set.
func (e *Engine) Plan(ctx context.Context, opts Options) ([]changes.Decision, error) {
	ctx = pcontext.WithOperation(ctx, "plan")
	c, err := e.prepare(ctx, opts, false)
	if err != nil {
		return nil, err
	}
	return c.decisions, nil
}

// Run executes one full build cycle
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	ctx = pcontext.NewRun(ctx)
	ctx = pcontext.WithOperation(ctx, "run")
	log := logger.WithContext(ctx, e.logger)

	c, err := e.prepare(ctx, opts, true)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:          pcontext.GetRunID(ctx),
		Configurations: c.configurations,
		Refs:           c.refs,
		Delta:          changes.DeltaBranches(c.delta),
	}

	for _, decision := range c.decisions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := e.execute(ctx, c, decision)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	c.cache.Refs = c.refs
	log.Info("Writing cache")
	if err := e.deps.Store.Save(c.cache); err != nil {
		return nil, err
	}
	result.Records = c.cache.Configurations

	if !opts.NoReport || opts.Dump != "" {
		if err := e.writeReport(c, opts); err != nil {
			return nil, err
		}
	}

	result.Duration = pcontext.GetDuration(ctx)
	log.Success(fmt.Sprintf("Run finished: %d built, %d failed", result.Built(), result.Failed()),
		logger.WithField("duration", utils.FormatDuration(result.Duration)))
	return result, nil
}

// Private methods

// prepare plans a cycle. With sync set the PR remotes are registered and the
// tree is cleaned first.
func (e *Engine) prepare(ctx context.Context, opts Options, sync bool) (*cycle, error) {
	log := logger.WithContext(ctx, e.logger)
	ws := e.deps.Workspace

	var prs []types.PullRequest
	if !opts.NoPRs && e.deps.PullRequests != nil {
		var err error
		prs, err = e.deps.PullRequests.OpenPullRequests(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to discover pull requests: %w", err)
		}
		log.Info("Discovered pull requests", logger.WithField("count", len(prs)))
	}

	cache, err := e.deps.Store.Load()
	if err != nil {
		return nil, err
	}

	if sync {
		if err := ws.SyncRemotes(ctx, prs); err != nil {
			return nil, fmt.Errorf("failed to sync remotes: %w", err)
		}

		log.Info("Cleaning the existing tree")
		if err := ws.Restore(ctx, false); err != nil {
			log.Debug("Nothing to clean", logger.WithField("error", err))
		}
	}

	configurations := e.cfg.Configurations(prs)
	branches := e.cfg.Branches(configurations)

	if !opts.NoUpdate {
		if err := ws.Fetch(ctx); err != nil {
			return nil, fmt.Errorf("failed to fetch remotes: %w", err)
		}
	}

	refs, err := ws.Refs(branches)
	if err != nil {
		return nil, err
	}
	if _, ok := refs[e.cfg.Mainline]; !ok {
		return nil, fmt.Errorf("mainline %s not found in %s", e.cfg.Mainline, ws.Dir())
	}

	delta := changes.Delta(cache.Refs, refs)
	if len(delta) > 0 {
		log.Debug("Branches changed",
			logger.WithField("branches", strings.Join(changes.DeltaBranches(delta), ", ")))
	}

	planner := changes.NewPlanner(changes.Options{
		Mainline: e.cfg.Mainline,
		Force:    opts.Force,
		NoBuild:  opts.NoBuild,
	})

	return &cycle{
		cache:          cache,
		configurations: configurations,
		refs:           refs,
		delta:          delta,
		decisions:      planner.Plan(configurations, refs, delta, cache.Configurations),
	}, nil
}

// execute handles one decision. Only a failure to restore the workspace or to
// persist the cache is returned as an error.
func (e *Engine) execute(ctx context.Context, c *cycle, decision changes.Decision) (Outcome, error) {
	cfg := decision.Configuration
	ctx = pcontext.WithConfiguration(ctx, cfg.Name)
	log := logger.WithContext(ctx, e.logger)

	outcome := Outcome{
		Configuration: cfg.Name,
		Status:        types.BuildStatusSkipped,
		Action:        decision.Action,
		Reason:        decision.Reason,
	}

	switch decision.Action {
	case changes.ActionDisabled, changes.ActionUpToDate:
		log.Debug("Skipping", logger.WithField("action", string(decision.Action)))
		return outcome, nil
	case changes.ActionMissing:
		log.Warn(fmt.Sprintf("Missing %s for %s", strings.Join(decision.Missing, ", "), cfg.Name))
		return outcome, nil
	}

	branches := "mainline only"
	if len(cfg.Branches) > 0 {
		branches = strings.Join(cfg.Branches, ", ")
	}
	log.Info(fmt.Sprintf("Rebuilding %s (using %s)", cfg.Name, branches),
		logger.WithField("reason", string(decision.Reason)))

	start := time.Now()
	record, err := e.build(ctx, c, cfg)
	outcome.Duration = time.Since(start)

	failed := err != nil
	if failed {
		outcome.Status = types.BuildStatusFailed
		outcome.Err = err
		e.transition(log, types.BuildStatusFailed)
		log.Error("Build failed", logger.WithField("error", err))
		if e.deps.Notifier != nil {
			e.deps.Notifier.NotifyBuildFailure(cfg.Name, err)
		}
	}

	// Restore even when the run is being cancelled
	e.transition(log, types.BuildStatusClean)
	if err := e.deps.Workspace.Restore(context.WithoutCancel(ctx), failed); err != nil {
		return outcome, fmt.Errorf("failed to restore workspace after %s: %w", cfg.Name, err)
	}

	if failed {
		return outcome, nil
	}

	outcome.Status = types.BuildStatusRecorded
	outcome.Version = record.FullVersion()
	c.cache.SetRecord(cfg.Name, record)
	c.cache.Refs = c.refs
	if err := e.deps.Store.Save(c.cache); err != nil {
		return outcome, err
	}

	if e.deps.Notifier != nil {
		e.deps.Notifier.NotifyBuildSuccess(cfg.Name, outcome.Version, outcome.Duration)
	}
	return outcome, nil
}

// build moves one configuration from clean to recorded
func (e *Engine) build(ctx context.Context, c *cycle, cfg types.Configuration) (types.BuildRecord, error) {
	log := logger.WithContext(ctx, e.logger)
	ws := e.deps.Workspace

	e.transition(log, types.BuildStatusMerging)
	if err := ws.CreateScratch(ctx, e.cfg.Mainline); err != nil {
		return types.BuildRecord{}, err
	}
	for _, branch := range cfg.Branches {
		if err := ws.Merge(ctx, branch); err != nil {
			return types.BuildRecord{}, err
		}
	}

	e.transition(log, types.BuildStatusBuilding)
	if err := e.deps.Builder.Build(ctx, cfg.Name); err != nil {
		return types.BuildRecord{}, err
	}

	e.transition(log, types.BuildStatusPackaging)
	artifact, err := e.deps.Builder.LocateArtifact()
	if err != nil {
		return types.BuildRecord{}, err
	}

	previous, hasPrevious := c.cache.Record(cfg.Name)
	record := e.deps.Packager.Version(artifact, previous, hasPrevious)
	if _, err := e.deps.Packager.Publish(artifact, cfg.Name, record); err != nil {
		return types.BuildRecord{}, err
	}

	record.Refs = types.RefMap{e.cfg.Mainline: c.refs[e.cfg.Mainline]}
	for _, branch := range cfg.Branches {
		record.Refs[branch] = c.refs[branch]
	}

	e.transition(log, types.BuildStatusRecorded)
	return record, nil
}

func (e *Engine) writeReport(c *cycle, opts Options) error {
	generator := report.NewGenerator(e.cfg, e.deps.Workspace, e.logger)

	ctx, err := generator.BuildContext(c.configurations, c.cache.Configurations)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if opts.Dump != "" {
		if err := generator.Dump(ctx, opts.Dump); err != nil {
			return err
		}
	}
	if opts.NoReport {
		return nil
	}
	return generator.WriteHTML(ctx)
}

func (e *Engine) transition(log logger.Logger, status types.BuildStatus) {
	log.Debug("State changed", logger.WithField("status", string(status)))
}
