// Package vcs provides exclusive access to the git checkout that configurations are built in
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/types"
)

// ScratchBranch is the local branch configurations are merged into
const ScratchBranch = "temp_branch"

const lockFile = "c3i.lock"

var (
	// ErrWorkspaceLocked indicates another live process holds the checkout
	ErrWorkspaceLocked = errors.New("workspace is locked by another process")

	// ErrMergeConflict indicates a branch could not be merged cleanly
	ErrMergeConflict = errors.New("merge failed")
)

// Options configure Acquire
type Options struct {
	Path string
	// Upstream is cloned into Path when it does not exist
	Upstream string
	// Branch is the local mainline branch the checkout returns to after a build
	Branch string
	Logger logger.Logger
}

// Workspace is the handle on the checkout, acquired once per run
type Workspace struct {
	dir      string
	branch   string
	repo     *git.Repository
	lockPath string
	logger   logger.Logger
}

var _ interfaces.Workspace = (*Workspace)(nil)

// Acquire opens (cloning first if needed) the repository and locks it
func Acquire(ctx context.Context, opts Options) (*Workspace, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	info, err := os.Stat(opts.Path)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%s is not a directory", opts.Path)
	case os.IsNotExist(err):
		log.Info("Cloning repository",
			logger.WithField("url", opts.Upstream),
			logger.WithField("path", opts.Path))
		if _, err := git.PlainCloneContext(ctx, opts.Path, false, &git.CloneOptions{URL: opts.Upstream}); err != nil {
			return nil, fmt.Errorf("failed to clone %s: %w", opts.Upstream, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat repository: %w", err)
	}

	repo, err := git.PlainOpen(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", opts.Path, err)
	}

	w := &Workspace{
		dir:      opts.Path,
		branch:   opts.Branch,
		repo:     repo,
		lockPath: filepath.Join(opts.Path, ".git", lockFile),
		logger:   log,
	}

	if err := w.lock(); err != nil {
		return nil, err
	}
	return w, nil
}

// Dir returns the checkout directory
func (w *Workspace) Dir() string {
	return w.dir
}

// Release gives up the lock
func (w *Workspace) Release() error {
	if err := os.Remove(w.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove workspace lock: %w", err)
	}
	return nil
}

// Refs resolves each remote branch to its commit id. Branches that do not
// exist are left out of the result.
func (w *Workspace) Refs(branches []string) (types.RefMap, error) {
	refs := make(types.RefMap, len(branches))
	for _, branch := range branches {
		ref, err := w.repo.Reference(plumbing.ReferenceName("refs/remotes/"+branch), true)
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve %s: %w", branch, err)
		}
		refs[branch] = ref.Hash().String()
	}
	return refs, nil
}

// Commit returns the commit id and the first line of its message
func (w *Workspace) Commit(hash string) (interfaces.CommitSummary, error) {
	commit, err := w.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return interfaces.CommitSummary{}, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	summary, _, _ := strings.Cut(strings.TrimLeft(commit.Message, "\n"), "\n")
	return interfaces.CommitSummary{
		Hash:    commit.Hash.String(),
		Summary: strings.TrimSpace(summary),
	}, nil
}

// SyncRemotes adds a remote for every pull request fork not already known
func (w *Workspace) SyncRemotes(ctx context.Context, prs []types.PullRequest) error {
	remotes, err := w.repo.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}

	known := make(map[string]bool, len(remotes))
	for _, remote := range remotes {
		known[remote.Config().Name] = true
	}

	for _, pr := range prs {
		if pr.Repo == "" || known[pr.Name] {
			continue
		}
		w.logger.Info("Adding remote",
			logger.WithField("name", pr.Name),
			logger.WithField("url", pr.Repo))
		if _, err := w.git(ctx, "remote", "add", pr.Name, pr.Repo); err != nil {
			return err
		}
		known[pr.Name] = true
	}
	return nil
}

// Fetch updates every remote, pruning deleted branches. Failures of
// individual remotes are logged and do not stop the run.
func (w *Workspace) Fetch(ctx context.Context) error {
	w.logger.Info("Fetching remotes")
	if _, err := w.git(ctx, "remote", "update", "--prune"); err != nil {
		w.logger.Warn("Fetching remotes failed", logger.WithField("error", err))
	}
	return nil
}

// CreateScratch checks out a fresh scratch branch at from
func (w *Workspace) CreateScratch(ctx context.Context, from string) error {
	_, err := w.git(ctx, "checkout", "-q", "-b", ScratchBranch, from)
	return err
}

// Merge merges branch into the scratch branch
func (w *Workspace) Merge(ctx context.Context, branch string) error {
	if _, err := w.git(ctx, "merge", "--no-edit", "-q", branch); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMergeConflict, branch, err)
	}
	return nil
}

// Restore returns the checkout to the mainline branch and deletes the scratch
// branch. After a failure any in-progress merge is aborted and the tree reset
// first.
func (w *Workspace) Restore(ctx context.Context, failed bool) error {
	if failed {
		w.gitQuiet(ctx, "merge", "--abort")
		w.gitQuiet(ctx, "reset", "-q", "--hard")
	}
	w.gitQuiet(ctx, "checkout", "-q", "--", ".")

	if _, err := w.git(ctx, "checkout", "-q", w.branch); err != nil {
		return err
	}

	if w.hasScratch() {
		if _, err := w.git(ctx, "branch", "-q", "-D", ScratchBranch); err != nil {
			return err
		}
	}
	return nil
}

// Private methods

func (w *Workspace) hasScratch() bool {
	_, err := w.repo.Reference(plumbing.NewBranchReferenceName(ScratchBranch), false)
	return err == nil
}

func (w *Workspace) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = w.dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	w.logger.Debug("Running git", logger.WithField("args", strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		return output.String(), fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(output.String()))
	}
	return output.String(), nil
}

func (w *Workspace) gitQuiet(ctx context.Context, args ...string) {
	if _, err := w.git(ctx, args...); err != nil {
		w.logger.Debug("Ignoring git failure", logger.WithField("error", err))
	}
}

func (w *Workspace) lock() error {
	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(w.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := file.WriteString(strconv.Itoa(os.Getpid()))
			file.Close()
			if werr != nil {
				os.Remove(w.lockPath)
				return fmt.Errorf("failed to write workspace lock: %w", werr)
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create workspace lock: %w", err)
		}

		if holderAlive(w.lockPath) {
			return fmt.Errorf("%w: %s", ErrWorkspaceLocked, w.lockPath)
		}
		w.logger.Warn("Reclaiming stale workspace lock", logger.WithField("path", w.lockPath))
		if err := os.Remove(w.lockPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return fmt.Errorf("%w: %s", ErrWorkspaceLocked, w.lockPath)
}

// holderAlive reports whether the PID recorded in the lock file is a running process
func holderAlive(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
