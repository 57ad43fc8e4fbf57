package examples

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// Status reports whether an example carries every required asset.
type Status struct {
	Missing []Role
}

// Complete reports whether no role is missing.
func (s Status) Complete() bool { return len(s.Missing) == 0 }

// Validate checks the three required files of an example. Missing files are a
// normal outcome reported through Status; only a denied read yields an error.
func Validate(sourceRoot string, name Name) (Status, error) {
	var status Status
	for _, role := range RequiredRoles {
		path := AssetPath(sourceRoot, name, role)
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.IsDir() {
				status.Missing = append(status.Missing, role)
			}
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
			status.Missing = append(status.Missing, role)
		case errors.Is(err, fs.ErrPermission):
			return Status{}, ferrors.PermissionError("asset is not readable").
				WithContext("example", string(name)).
				WithContext("path", path).
				WithCause(err).
				Build()
		default:
			return Status{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot stat asset").
				WithContext("example", string(name)).
				WithContext("path", path).
				Build()
		}
	}
	return status, nil
}
