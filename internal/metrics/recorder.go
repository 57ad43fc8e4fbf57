package metrics

import "time"

// ResultLabel enumerates per-example staging results.
type ResultLabel string

const (
	ResultStaged   ResultLabel = "staged"
	ResultSkipped  ResultLabel = "skipped_missing_assets"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel enumerates external build outcomes.
type BuildOutcomeLabel string

const (
	BuildSuccess BuildOutcomeLabel = "success"
	BuildFailure BuildOutcomeLabel = "failure"
	BuildTimeout BuildOutcomeLabel = "timeout"
	BuildSkipped BuildOutcomeLabel = "skipped"
)

// Recorder defines observability hooks for a staging run. Implementations must be
// safe for concurrent use; staging workers call them in parallel.
type Recorder interface {
	ObserveExampleDuration(result ResultLabel, d time.Duration)
	IncExampleResult(result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetStagingConcurrency(n int)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveExampleDuration(ResultLabel, time.Duration) {}
func (NoopRecorder) IncExampleResult(ResultLabel)                      {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)                 {}
func (NoopRecorder) SetStagingConcurrency(int)                         {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                  {}
