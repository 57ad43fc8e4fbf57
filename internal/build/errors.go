package build

import "errors"

var (
	// ErrBuilderNotFound indicates the builder executable was not found on PATH.
	ErrBuilderNotFound = errors.New("builder binary not found")
	// ErrBuilderFailed indicates the builder exited with a non-zero status.
	ErrBuilderFailed = errors.New("builder execution failed")
	// ErrBuilderTimeout indicates the builder exceeded the configured timeout.
	ErrBuilderTimeout = errors.New("builder timed out")
)

// exitCoder is implemented by *exec.ExitError and by test doubles.
type exitCoder interface {
	ExitCode() int
}
