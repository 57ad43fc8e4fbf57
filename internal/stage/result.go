package stage

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/examples"
	"git.home.luguber.info/inful/bookstage/internal/metrics"
)

// Kind is the terminal state of one example within a run.
type Kind string

const (
	KindStaged               Kind = "Staged"
	KindSkippedMissingAssets Kind = "SkippedMissingAssets"
	KindFailed               Kind = "Failed"
)

// Result is the outcome of validating and staging a single example.
type Result struct {
	Kind    Kind
	Reason  string          // set for KindFailed
	Missing []examples.Role // set for KindSkippedMissingAssets
	Err     error
}

// Staged reports a fully copied example.
func Staged() Result { return Result{Kind: KindStaged} }

// Skipped reports an example missing one or more required assets.
func Skipped(missing []examples.Role) Result {
	return Result{Kind: KindSkippedMissingAssets, Missing: missing}
}

// Failed reports a hard failure for one example.
func Failed(reason string, err error) Result {
	return Result{Kind: KindFailed, Reason: reason, Err: err}
}

// HardFailure reports whether the result should fail the run.
func (r Result) HardFailure() bool { return r.Kind == KindFailed }

// MissingFiles lists the missing asset file names, e.g. "vis_code.svg, vis_timeline.svg".
func (r Result) MissingFiles() string {
	names := make([]string, 0, len(r.Missing))
	for _, role := range r.Missing {
		names = append(names, role.FileName())
	}
	return strings.Join(names, ", ")
}

func (r Result) label() metrics.ResultLabel {
	switch r.Kind {
	case KindStaged:
		return metrics.ResultStaged
	case KindSkippedMissingAssets:
		return metrics.ResultSkipped
	default:
		return metrics.ResultFailed
	}
}

// Outcome pairs an example with its result.
type Outcome struct {
	Name     examples.Name
	Result   Result
	Duration time.Duration
}
