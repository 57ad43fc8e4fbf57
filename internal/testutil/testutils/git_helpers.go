package helpers

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SetupTestGitRepo initializes a git repository at dir (a fresh temp dir when empty).
// Returns the repository, its worktree, and the repository path.
func SetupTestGitRepo(t *testing.T, dir string) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	if dir == "" {
		dir = t.TempDir()
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, dir
}

// CommitAll stages every change in the worktree and commits it, returning the commit hash.
func CommitAll(t *testing.T, w *git.Worktree, msg string) string {
	t.Helper()

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to add files: %v", err)
	}
	hash, err := w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "bookstage", Email: "test@example.invalid", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}
