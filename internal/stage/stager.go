package stage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/bookstage/internal/examples"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// Stager copies the assets of validated examples into the destination tree.
type Stager struct {
	sourceRoot string
	destRoot   string
}

// NewStager creates a stager copying from sourceRoot into destRoot.
func NewStager(sourceRoot, destRoot string) *Stager {
	return &Stager{sourceRoot: sourceRoot, destRoot: destRoot}
}

// Stage copies all required assets of name into <dest>/<name>, overwriting files
// already there. The caller must have validated the example; Stage does not check
// again. A failure part way leaves the files copied so far in place.
func (s *Stager) Stage(name examples.Name) Result {
	dir := filepath.Join(s.destRoot, string(name))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		cerr := classify(err, "create destination directory", name, dir)
		return Failed(fmt.Sprintf("create %s: %v", dir, unwrapPath(err)), cerr)
	}
	for _, role := range examples.RequiredRoles {
		src := examples.AssetPath(s.sourceRoot, name, role)
		dst := filepath.Join(dir, role.FileName())
		if err := copyFile(src, dst); err != nil {
			cerr := classify(err, "copy asset", name, src).WithContext("role", string(role))
			return Failed(fmt.Sprintf("copy %s: %v", role.FileName(), unwrapPath(err)), cerr)
		}
	}
	return Staged()
}

func classify(err error, msg string, name examples.Name, path string) *ferrors.ClassifiedError {
	b := ferrors.CopyError(msg)
	if errors.Is(err, fs.ErrPermission) {
		b = ferrors.PermissionError(msg)
	}
	return b.WithCause(err).
		WithContext("example", string(name)).
		WithContext("path", path).
		Build()
}

// unwrapPath strips the *PathError wrapper so reasons stay short.
func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// copyFile copies src to dst through a temporary file in dst's directory that is
// renamed over dst, so an existing read-only dst is replaced rather than
// reopened. The source permissions are preserved.
func copyFile(src, dst string) (err error) {
	srcFile, err := os.Open(src) // #nosec G304 -- paths built from validated example names
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, srcFile); err != nil {
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
