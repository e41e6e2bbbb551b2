// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"context"
	"time"

	"github.com/c3i/c3i/pkg/types"
)

//go:generate mockgen -destination=../mocks/mock_interfaces.go -package=mocks github.com/c3i/c3i/pkg/interfaces Workspace,Builder,BuildNotifier,PullRequestSource

// CommitSummary is a commit id and the first line of its message
type CommitSummary struct {
	Hash    string
	Summary string
}

// Workspace is exclusive access to the repository checkout. Every mutation
// of the working tree goes through it.
type Workspace interface {
	Dir() string
	Refs(branches []string) (types.RefMap, error)
	Commit(hash string) (CommitSummary, error)
	SyncRemotes(ctx context.Context, prs []types.PullRequest) error
	Fetch(ctx context.Context) error
	CreateScratch(ctx context.Context, from string) error
	Merge(ctx context.Context, branch string) error
	Restore(ctx context.Context, failed bool) error
	Release() error
}

// Builder runs the external build for a configuration
type Builder interface {
	Build(ctx context.Context, configuration string) error
	LocateArtifact() (string, error)
}

// BuildNotifier handles build notifications
type BuildNotifier interface {
	NotifyBuildSuccess(configuration string, version string, duration time.Duration)
	NotifyBuildFailure(configuration string, err error)
}

// PullRequestSource lists open pull requests
type PullRequestSource interface {
	OpenPullRequests(ctx context.Context) ([]types.PullRequest, error)
}
