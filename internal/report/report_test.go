package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookstage/internal/build"
	"git.home.luguber.info/inful/bookstage/internal/examples"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	"git.home.luguber.info/inful/bookstage/internal/stage"
)

func sampleOutcomes() []stage.Outcome {
	return []stage.Outcome{
		{Name: "foo", Result: stage.Staged(), Duration: 2 * time.Millisecond},
		{Name: "bar", Result: stage.Skipped([]examples.Role{examples.RoleCodeVis, examples.RoleTimelineVis})},
	}
}

func TestEmitter_ScenarioOutput(t *testing.T) {
	var buf bytes.Buffer
	code := NewEmitter(&buf).Report(sampleOutcomes(), build.Result{Status: build.StatusSuccess})

	require.Equal(t, ferrors.ExitOK, code)
	require.Equal(t, ""+
		"bar: SkippedMissingAssets (missing: vis_code.svg, vis_timeline.svg)\n"+
		"foo: Staged\n"+
		"build: Success\n"+
		"summary: staged=1 skipped=1 failed=0 build=Success\n", buf.String())
}

func TestEmitter_ExitCodes(t *testing.T) {
	failed := append(sampleOutcomes(), stage.Outcome{
		Name:   "baz",
		Result: stage.Failed("copy vis_code.svg: permission denied", errors.New("denied")),
	})
	buildFailed := build.Result{Status: build.StatusFailure, ExitCode: 101, Err: errors.New("boom")}
	skipped := build.Result{Status: build.StatusSkipped}

	cases := []struct {
		name     string
		outcomes []stage.Outcome
		br       build.Result
		want     int
	}{
		{"all good", sampleOutcomes(), build.Result{Status: build.StatusSuccess}, ferrors.ExitOK},
		{"skipped build", sampleOutcomes(), skipped, ferrors.ExitOK},
		{"example failed", failed, skipped, ferrors.ExitStagingFailed},
		{"build failed", sampleOutcomes(), buildFailed, ferrors.ExitBuildFailed},
		{"both failed", failed, buildFailed, ferrors.ExitBuildFailed},
		{"nothing to do", nil, build.Result{Status: build.StatusSuccess}, ferrors.ExitOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.Equal(t, tc.want, NewEmitter(&buf).Report(tc.outcomes, tc.br))
		})
	}
}

func TestEmitter_BuildFailureStillReportsExamples(t *testing.T) {
	outcomes := append(sampleOutcomes(), stage.Outcome{Name: "baz", Result: stage.Failed("copy source.rs: disk full", nil)})
	var buf bytes.Buffer
	NewEmitter(&buf).Report(outcomes, build.Result{Status: build.StatusFailure, ExitCode: 2})

	out := buf.String()
	require.Contains(t, out, "bar: SkippedMissingAssets")
	require.Contains(t, out, "baz: Failed: copy source.rs: disk full\n")
	require.Contains(t, out, "foo: Staged\n")
	require.Contains(t, out, "build: Failure (exit 2)\n")
	require.Contains(t, out, "summary: staged=1 skipped=1 failed=1 build=Failure\n")
}

func TestEmitter_Timeout(t *testing.T) {
	var buf bytes.Buffer
	NewEmitter(&buf).Report(nil, build.Result{Status: build.StatusFailure, TimedOut: true, ExitCode: -1})
	require.Contains(t, buf.String(), "build: Failure (timed out)\n")
}

func TestSummary_Persist(t *testing.T) {
	s := Summarize(sampleOutcomes(), build.Result{Status: build.StatusFailure, ExitCode: 1, Err: errors.New("mdbook failed")})
	s.RunID = "run-1"
	s.Start = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "reports", "last-run.json")
	require.NoError(t, s.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "run-1", decoded["run_id"])
	require.EqualValues(t, ferrors.ExitBuildFailed, decoded["exit_code"])
	require.Equal(t, "mdbook failed", decoded["build"].(map[string]any)["error"])
	require.Len(t, decoded["examples"], 2)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}
