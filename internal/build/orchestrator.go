package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/config"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/logfields"
	"git.home.luguber.info/inful/bookstage/internal/metrics"
)

// Status is the outcome of the build step.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
	StatusSkipped Status = "Skipped"
)

// Exit codes reported for failures that never produced a process exit status.
const (
	ExitCodeNotFound = 127
	ExitCodeUnknown  = -1
)

// Result reports how the external build went.
type Result struct {
	Status   Status
	ExitCode int
	TimedOut bool
	Duration time.Duration
	Err      error
}

// Succeeded reports whether the build did not fail. A skipped build succeeds.
func (r Result) Succeeded() bool { return r.Status != StatusFailure }

// Orchestrator runs the external builder exactly once per call.
type Orchestrator struct {
	cfg      config.BuildConfig
	runner   Runner
	recorder metrics.Recorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner allows tests or callers to inject a custom runner.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// NewOrchestrator creates an orchestrator for cfg. The default runner executes
// the configured command on PATH.
func NewOrchestrator(cfg config.BuildConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg, runner: &ExecRunner{}, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build runs the builder over destRoot. It must only be called after every
// example has reached a terminal state. The working directory is the configured
// build dir, or destRoot when none is set.
func (o *Orchestrator) Build(ctx context.Context, destRoot string) Result {
	if o.cfg.Skip {
		slog.Info("Skipping external build")
		o.recorder.IncBuildOutcome(metrics.BuildSkipped)
		return Result{Status: StatusSkipped}
	}

	inv := Invocation{Command: o.cfg.Command, Args: o.cfg.Args, Dir: o.cfg.Dir}
	if inv.Dir == "" {
		inv.Dir = destRoot
	}
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	slog.Info("Running book build", slog.String("command", inv.String()), logfields.Path(inv.Dir))
	start := time.Now()
	err := o.runner.Execute(ctx, inv)
	res := classify(ctx, err)
	res.Duration = time.Since(start)
	o.recorder.ObserveBuildDuration(res.Duration)

	switch {
	case res.Status == StatusSuccess:
		o.recorder.IncBuildOutcome(metrics.BuildSuccess)
		slog.Info("Book build succeeded", logfields.Duration(res.Duration))
	case res.TimedOut:
		o.recorder.IncBuildOutcome(metrics.BuildTimeout)
		slog.Error("Book build timed out", slog.Duration("timeout", o.cfg.Timeout), logfields.Error(res.Err))
	default:
		o.recorder.IncBuildOutcome(metrics.BuildFailure)
		slog.Error("Book build failed", logfields.ExitCode(res.ExitCode), logfields.Error(res.Err))
	}
	return res
}

func classify(ctx context.Context, err error) Result {
	if err == nil {
		return Result{Status: StatusSuccess}
	}
	res := Result{Status: StatusFailure, ExitCode: ExitCodeUnknown}
	msg := "book build failed"
	var ec exitCoder
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		msg = "book build timed out"
		err = errors.Join(ErrBuilderTimeout, err)
	case errors.Is(err, ErrBuilderNotFound):
		res.ExitCode = ExitCodeNotFound
		msg = "book builder not found"
	case errors.As(err, &ec):
		res.ExitCode = ec.ExitCode()
	}
	res.Err = ferrors.BuildError(msg).
		WithCause(err).
		WithContext("exit_code", res.ExitCode).
		Build()
	return res
}
