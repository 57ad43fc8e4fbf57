package examples

import (
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/logfields"
)

// ListExamples returns the immediate child directories of sourceRoot as example
// names, in lexical order. The directory is read lazily each time the sequence is
// ranged over, so the sequence can be iterated more than once. Hidden directories
// are skipped; symlinks to directories are listed.
//
// A missing or non-directory sourceRoot yields a CategoryNotFound error.
func ListExamples(sourceRoot string) (iter.Seq[Name], error) {
	if err := checkRoot(sourceRoot); err != nil {
		return nil, err
	}
	return func(yield func(Name) bool) {
		entries, err := os.ReadDir(sourceRoot)
		if err != nil {
			slog.Warn("Failed to read example source root", logfields.Path(sourceRoot), logfields.Error(err))
		}
		// ReadDir returns entries sorted by filename, even alongside an error.
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") || !isDir(sourceRoot, entry) {
				continue
			}
			if !yield(Name(entry.Name())) {
				return
			}
		}
	}, nil
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(root string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}

func checkRoot(sourceRoot string) error {
	info, err := os.Stat(sourceRoot)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ferrors.NotFoundError("source root does not exist").
			WithContext("path", sourceRoot).
			WithCause(err).
			Build()
	case errors.Is(err, fs.ErrPermission):
		return ferrors.PermissionError("source root is not readable").
			Fatal().
			WithContext("path", sourceRoot).
			WithCause(err).
			Build()
	case err != nil:
		return ferrors.FileSystemError("cannot stat source root").
			Fatal().
			WithContext("path", sourceRoot).
			WithCause(err).
			Build()
	case !info.IsDir():
		return ferrors.NotFoundError("source root is not a directory").
			WithContext("path", sourceRoot).
			Build()
	}
	return nil
}
