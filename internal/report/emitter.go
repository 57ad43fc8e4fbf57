package report

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/bookstage/internal/build"
	"git.home.luguber.info/inful/bookstage/internal/stage"
)

// Emitter prints the per-example lines, the build line and a summary line.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Report prints every outcome sorted by example name followed by the build
// outcome and a summary, and returns the process exit code.
func (e *Emitter) Report(outcomes []stage.Outcome, br build.Result) int {
	return e.Emit(Summarize(outcomes, br))
}

// Emit prints an already computed summary and returns its exit code.
func (e *Emitter) Emit(s Summary) int {
	for _, ex := range s.Examples {
		e.printf("%s\n", exampleLine(ex))
	}
	e.printf("build: %s\n", buildLine(s.Build))
	e.printf("summary: staged=%d skipped=%d failed=%d build=%s\n", s.Staged, s.Skipped, s.Failed, s.Build.Status)
	return s.ExitCode
}

func (e *Emitter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.w, format, args...)
}

func exampleLine(ex ExampleEntry) string {
	switch ex.Result {
	case stage.KindStaged:
		return ex.Name + ": Staged"
	case stage.KindSkippedMissingAssets:
		if len(ex.Missing) == 0 {
			return ex.Name + ": SkippedMissingAssets"
		}
		return fmt.Sprintf("%s: SkippedMissingAssets (missing: %s)", ex.Name, strings.Join(ex.Missing, ", "))
	default:
		return fmt.Sprintf("%s: Failed: %s", ex.Name, ex.Reason)
	}
}

func buildLine(b BuildSummary) string {
	switch {
	case b.Status != build.StatusFailure:
		return string(b.Status)
	case b.TimedOut:
		return "Failure (timed out)"
	default:
		return fmt.Sprintf("Failure (exit %d)", b.ExitCode)
	}
}
