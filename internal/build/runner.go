package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/logfields"
)

// Invocation describes one run of the external builder.
type Invocation struct {
	Command string
	Args    []string
	Dir     string
}

func (i Invocation) String() string {
	return strings.TrimSpace(i.Command + " " + strings.Join(i.Args, " "))
}

// Runner abstracts how the builder process is executed so tests can substitute
// a fake without the real builder installed.
//
// Execute must block until the process exits or ctx is done, and return an error
// implementing ExitCode() int for non-zero exits.
type Runner interface {
	Execute(ctx context.Context, inv Invocation) error
}

// ExecRunner runs the builder binary found on PATH.
type ExecRunner struct {
	// WaitDelay bounds how long to wait for output pipes after the process is killed.
	WaitDelay time.Duration
}

func (r *ExecRunner) Execute(ctx context.Context, inv Invocation) error {
	if _, err := exec.LookPath(inv.Command); err != nil {
		return fmt.Errorf("%w: %w", ErrBuilderNotFound, err)
	}

	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...) // #nosec G204 -- command comes from operator config
	cmd.Dir = inv.Dir
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Invoking builder", slog.String("command", inv.String()), logfields.Path(inv.Dir))

	err := cmd.Run()

	outStr := strings.TrimSpace(stdout.String())
	errStr := strings.TrimSpace(stderr.String())
	if outStr != "" {
		slog.Debug("builder stdout", "output", outStr)
	}
	if errStr != "" {
		slog.Warn("builder stderr", "error_output", errStr)
	}
	if err == nil {
		return nil
	}

	// Builders print diagnostics on either stream.
	output := errStr
	if output == "" {
		output = outStr
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && output != "" {
		return fmt.Errorf("%w: %w: %s", ErrBuilderFailed, err, lastLines(output, 20))
	}
	return fmt.Errorf("%w: %w", ErrBuilderFailed, err)
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// NoopRunner performs no build; useful in tests or when only staging is desired.
type NoopRunner struct{}

func (NoopRunner) Execute(_ context.Context, inv Invocation) error {
	slog.Debug("NoopRunner skipping build", logfields.Path(inv.Dir))
	return nil
}
