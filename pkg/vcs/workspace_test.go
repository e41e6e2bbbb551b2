package vcs_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c3i/c3i/pkg/vcs"
)

// initRepo creates a repository with one commit published as origin/master
func initRepo(t *testing.T) (string, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README")
	require.NoError(t, err)

	hash, err := wt.Commit("Initial commit\n\nWith a body.\n", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.ReferenceName("refs/remotes/origin/master"), hash)))

	return dir, hash
}

func TestAcquire_RefsAndCommit(t *testing.T) {
	dir, hash := initRepo(t)

	ws, err := vcs.Acquire(context.Background(), vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)
	defer ws.Release()

	refs, err := ws.Refs([]string{"origin/master", "alice/ComputerCraft/missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"origin/master": hash.String()}, map[string]string(refs))

	commit, err := ws.Commit(hash.String())
	require.NoError(t, err)
	assert.Equal(t, hash.String(), commit.Hash)
	assert.Equal(t, "Initial commit", commit.Summary)
}

func TestAcquire_IsExclusive(t *testing.T) {
	dir, _ := initRepo(t)

	first, err := vcs.Acquire(context.Background(), vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)

	_, err = vcs.Acquire(context.Background(), vcs.Options{Path: dir, Branch: "master"})
	assert.True(t, errors.Is(err, vcs.ErrWorkspaceLocked), "expected lock error, got %v", err)

	require.NoError(t, first.Release())

	second, err := vcs.Acquire(context.Background(), vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestAcquire_ReclaimsStaleLock(t *testing.T) {
	dir, _ := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "c3i.lock"), []byte("2147483646"), 0644))

	ws, err := vcs.Acquire(context.Background(), vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)
	require.NoError(t, ws.Release())
}

func TestAcquire_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.WriteFile(path, []byte("not a repo"), 0644))

	_, err := vcs.Acquire(context.Background(), vcs.Options{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, dir, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte(content), 0644))
	runGit(t, dir, "add", "file.txt")
	runGit(t, dir, "commit", "-q", "-m", message)
}

// initShellRepo builds origin/master plus two branches that conflict with each other
func initShellRepo(t *testing.T) string {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()

	runGit(t, dir, "init", "-q")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/master")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")

	commitFile(t, dir, "base\n", "Base")
	runGit(t, dir, "update-ref", "refs/remotes/origin/master", "HEAD")

	runGit(t, dir, "checkout", "-q", "-b", "feature")
	commitFile(t, dir, "feature\n", "Feature")
	runGit(t, dir, "update-ref", "refs/remotes/origin/feature", "HEAD")

	runGit(t, dir, "checkout", "-q", "master")
	runGit(t, dir, "checkout", "-q", "-b", "conflict")
	commitFile(t, dir, "conflict\n", "Conflict")
	runGit(t, dir, "update-ref", "refs/remotes/origin/conflict", "HEAD")

	runGit(t, dir, "checkout", "-q", "master")
	return dir
}

func TestWorkspace_MergeAndRestore(t *testing.T) {
	dir := initShellRepo(t)
	ctx := context.Background()

	ws, err := vcs.Acquire(ctx, vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)
	defer ws.Release()

	require.NoError(t, ws.CreateScratch(ctx, "origin/master"))
	require.NoError(t, ws.Merge(ctx, "origin/feature"))

	content, err := os.ReadFile(filepath.Join(dir, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "feature\n", string(content))

	require.NoError(t, ws.Restore(ctx, false))
	assert.Equal(t, "master", runGit(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Empty(t, runGit(t, dir, "branch", "--list", vcs.ScratchBranch))
}

func TestWorkspace_ConflictIsAbortedOnRestore(t *testing.T) {
	dir := initShellRepo(t)
	ctx := context.Background()

	ws, err := vcs.Acquire(ctx, vcs.Options{Path: dir, Branch: "master"})
	require.NoError(t, err)
	defer ws.Release()

	require.NoError(t, ws.CreateScratch(ctx, "origin/master"))
	require.NoError(t, ws.Merge(ctx, "origin/feature"))

	err = ws.Merge(ctx, "origin/conflict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, vcs.ErrMergeConflict))

	require.NoError(t, ws.Restore(ctx, true))
	assert.Equal(t, "master", runGit(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Empty(t, runGit(t, dir, "status", "--porcelain", "--untracked-files=no"))
	assert.Empty(t, runGit(t, dir, "branch", "--list", vcs.ScratchBranch))
}

func TestWorkspace_RestoreUsesConfiguredBranch(t *testing.T) {
	dir := initShellRepo(t)
	ctx := context.Background()
	runGit(t, dir, "branch", "-q", "stable", "master")

	ws, err := vcs.Acquire(ctx, vcs.Options{Path: dir, Branch: "stable"})
	require.NoError(t, err)
	defer ws.Release()

	require.NoError(t, ws.CreateScratch(ctx, "origin/master"))
	require.NoError(t, ws.Restore(ctx, false))
	assert.Equal(t, "stable", runGit(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
}
