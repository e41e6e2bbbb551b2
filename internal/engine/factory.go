package engine

import (
	"context"
	"path/filepath"

	"github.com/c3i/c3i/pkg/builders"
	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/github"
	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/notifier"
	"github.com/c3i/c3i/pkg/packaging"
	"github.com/c3i/c3i/pkg/state"
)

// DependencyFactory creates the default implementations of the run
// dependencies from the settings file
type DependencyFactory struct {
	cfg    *config.Config
	logger logger.Logger
}

// NewDependencyFactory creates a new dependency factory
func NewDependencyFactory(cfg *config.Config, log logger.Logger) *DependencyFactory {
	if log == nil {
		log = logger.Discard()
	}
	return &DependencyFactory{cfg: cfg, logger: log}
}

// CreateDefaults creates every dependency around an acquired workspace
func (f *DependencyFactory) CreateDefaults(ctx context.Context, ws interfaces.Workspace) Dependencies {
	deps := Dependencies{
		Workspace:    ws,
		Builder:      f.createBuilder(ws.Dir()),
		Packager:     f.createPackager(ws.Dir()),
		Store:        state.NewStore(f.cfg.Cache, f.logger),
		PullRequests: f.createPullRequestSource(ctx),
	}

	if f.cfg.Notifications {
		deps.Notifier = notifier.New(notifier.Config{Enabled: true}, f.logger)
	}

	return deps
}

// CreateWithOverrides creates dependencies with specific overrides.
// Non-nil values replace the defaults.
func (f *DependencyFactory) CreateWithOverrides(ctx context.Context, ws interfaces.Workspace, overrides Dependencies) Dependencies {
	deps := f.CreateDefaults(ctx, ws)

	if overrides.Builder != nil {
		deps.Builder = overrides.Builder
	}
	if overrides.Packager != nil {
		deps.Packager = overrides.Packager
	}
	if overrides.Store != nil {
		deps.Store = overrides.Store
	}
	if overrides.PullRequests != nil {
		deps.PullRequests = overrides.PullRequests
	}
	if overrides.Notifier != nil {
		deps.Notifier = overrides.Notifier
	}

	return deps
}

// LogDir is where per-configuration build logs are written
func LogDir(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Cache), ".c3i", "logs")
}

// Private methods

func (f *DependencyFactory) createBuilder(checkout string) interfaces.Builder {
	return builders.NewCommandBuilder(builders.Options{
		Dir:         checkout,
		Command:     f.cfg.BuildCommand,
		ArtifactDir: f.cfg.ArtifactDir,
		LogDir:      LogDir(f.cfg),
	}, f.logger)
}

func (f *DependencyFactory) createPackager(checkout string) Packager {
	library := f.cfg.BundledLibrary
	if library != "" && !filepath.IsAbs(library) {
		library = filepath.Join(checkout, library)
	}
	return packaging.NewPackager(packaging.Options{
		Output:         f.cfg.Output,
		Group:          f.cfg.Group,
		BaseName:       f.cfg.ArtifactName,
		BundledLibrary: library,
	}, f.logger)
}

func (f *DependencyFactory) createPullRequestSource(ctx context.Context) interfaces.PullRequestSource {
	if f.cfg.GitHubRepo == "" {
		return nil
	}
	return github.NewClient(ctx, github.Options{
		APIURL: f.cfg.GitHubAPI,
		Repo:   f.cfg.GitHubRepo,
		Token:  f.cfg.GitHubToken,
	}, f.logger)
}
