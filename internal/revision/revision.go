// Package revision reports which commit of the visualization generator
// repository a staging run copied from.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Read returns the HEAD commit hash of the git repository containing path.
// Parent directories are searched for the repository root. A path outside any
// repository, or a repository without commits, yields an empty string and no error.
func Read(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", path, err)
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: freshly initialized repository.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve HEAD of %s: %w", path, err)
	}
	return head.Hash().String(), nil
}

// Short abbreviates a commit hash for display.
func Short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
