package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/build"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/stage"
)

// Summary aggregates one run. It lives for the duration of the process and is
// never read back by later runs.
type Summary struct {
	RunID    string         `json:"run_id,omitempty"`
	Source   string         `json:"source,omitempty"`
	Dest     string         `json:"dest,omitempty"`
	Revision string         `json:"source_revision,omitempty"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Staged   int            `json:"staged"`
	Skipped  int            `json:"skipped_missing_assets"`
	Failed   int            `json:"failed"`
	Build    BuildSummary   `json:"build"`
	ExitCode int            `json:"exit_code"`
	Examples []ExampleEntry `json:"examples"`
}

// BuildSummary is the serializable form of build.Result.
type BuildSummary struct {
	Status     build.Status `json:"status"`
	ExitCode   int          `json:"exit_code"`
	TimedOut   bool         `json:"timed_out,omitempty"`
	DurationMS int64        `json:"duration_ms"`
	Error      string       `json:"error,omitempty"`
}

// ExampleEntry is the serializable form of one stage.Outcome.
type ExampleEntry struct {
	Name       string     `json:"name"`
	Result     stage.Kind `json:"result"`
	Reason     string     `json:"reason,omitempty"`
	Missing    []string   `json:"missing,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// Summarize counts outcomes and derives the process exit code. Outcomes are
// sorted by name in the returned summary.
func Summarize(outcomes []stage.Outcome, br build.Result) Summary {
	sorted := slices.Clone(outcomes)
	slices.SortFunc(sorted, func(a, b stage.Outcome) int { return cmp.Compare(a.Name, b.Name) })

	s := Summary{Examples: make([]ExampleEntry, 0, len(sorted))}
	for _, o := range sorted {
		entry := ExampleEntry{
			Name:       string(o.Name),
			Result:     o.Result.Kind,
			Reason:     o.Result.Reason,
			DurationMS: o.Duration.Milliseconds(),
		}
		switch o.Result.Kind {
		case stage.KindStaged:
			s.Staged++
		case stage.KindSkippedMissingAssets:
			s.Skipped++
			for _, r := range o.Result.Missing {
				entry.Missing = append(entry.Missing, r.FileName())
			}
		default:
			s.Failed++
		}
		s.Examples = append(s.Examples, entry)
	}

	s.Build = BuildSummary{
		Status:     br.Status,
		ExitCode:   br.ExitCode,
		TimedOut:   br.TimedOut,
		DurationMS: br.Duration.Milliseconds(),
	}
	if br.Err != nil {
		s.Build.Error = br.Err.Error()
	}
	s.ExitCode = exitCode(s, br)
	return s
}

// exitCode: a failed build outranks failed examples; skipped examples never fail a run.
func exitCode(s Summary, br build.Result) int {
	switch {
	case !br.Succeeded():
		return ferrors.ExitBuildFailed
	case s.Failed > 0:
		return ferrors.ExitStagingFailed
	default:
		return ferrors.ExitOK
	}
}

// Persist writes the summary as indented JSON to path, replacing any existing
// file atomically.
func (s *Summary) Persist(path string) error {
	if s.End.IsZero() {
		s.End = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename report json: %w", err)
	}
	return nil
}
