package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/bookstage/internal/testutil/testutils"
)

// isolate runs the test from an empty directory so no bookstage.yaml or .env leaks in.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("BOOKSTAGE_SKIP_BUILD", "")
}

func exitCodeFor(err error) int {
	return ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err)
}

func TestStageAndBuild_StagesCompleteAndSkipsIncomplete(t *testing.T) {
	isolate(t)
	tree := helpers.NewExampleTree(t).Complete("foo").With("bar", "source.rs")
	dest := filepath.Join(t.TempDir(), "assets")

	var out bytes.Buffer
	g := &Global{Stdout: &out}
	cmd := &StageAndBuildCmd{StageFlags{Source: tree.Root, Dest: dest, SkipBuild: true}}
	require.NoError(t, cmd.Run(g, &CLI{}))

	require.Equal(t, ferrors.ExitOK, g.ExitCode)
	require.Equal(t, strings.Join([]string{
		"bar: SkippedMissingAssets (missing: vis_code.svg, vis_timeline.svg)",
		"foo: Staged",
		"build: Skipped",
		"summary: staged=1 skipped=1 failed=0 build=Skipped",
	}, "\n")+"\n", out.String())

	helpers.NewFileAssertions(t, dest).
		AssertDirNames(".", "foo").
		AssertSameContent("foo/source.rs", tree.Path("foo", "source.rs")).
		AssertSameContent("foo/vis_code.svg", tree.Path("foo", "vis_code.svg")).
		AssertSameContent("foo/vis_timeline.svg", tree.Path("foo", "vis_timeline.svg"))
}

func TestStageAndBuild_BuildFailureExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	isolate(t)
	tree := helpers.NewExampleTree(t).Complete("foo")
	dest := filepath.Join(t.TempDir(), "assets")
	cfgPath := filepath.Join(t.TempDir(), "bookstage.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`build:
  command: sh
  args: ["-c", "echo broken >&2; exit 4"]
`), 0o600))

	var out bytes.Buffer
	g := &Global{Stdout: &out}
	cmd := &StageAndBuildCmd{StageFlags{Source: tree.Root, Dest: dest}}
	require.NoError(t, cmd.Run(g, &CLI{Config: cfgPath}))

	require.Equal(t, ferrors.ExitBuildFailed, g.ExitCode)
	require.Contains(t, out.String(), "foo: Staged\n")
	require.Contains(t, out.String(), "build: Failure (exit 4)\n")
}

func TestStageAndBuild_BuildTimeoutFlagOverridesConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	isolate(t)
	tree := helpers.NewExampleTree(t).Complete("foo")
	dest := filepath.Join(t.TempDir(), "assets")
	cfgPath := filepath.Join(t.TempDir(), "bookstage.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`build:
  command: sh
  args: ["-c", "exec sleep 5"]
  timeout: 1h
`), 0o600))

	timeout := 100 * time.Millisecond
	var out bytes.Buffer
	g := &Global{Stdout: &out}
	cmd := &StageAndBuildCmd{StageFlags{Source: tree.Root, Dest: dest, BuildTimeout: &timeout}}
	require.NoError(t, cmd.Run(g, &CLI{Config: cfgPath}))

	require.Equal(t, ferrors.ExitBuildFailed, g.ExitCode)
	require.Contains(t, out.String(), "build: Failure (timed out)\n")
}

func TestStageAndBuild_MissingSourceRoot(t *testing.T) {
	isolate(t)
	g := &Global{Stdout: &bytes.Buffer{}}
	cmd := &StageAndBuildCmd{StageFlags{Source: filepath.Join(t.TempDir(), "nope"), Dest: t.TempDir(), SkipBuild: true}}

	err := cmd.Run(g, &CLI{})
	require.Error(t, err)
	require.Equal(t, ferrors.ExitUsage, exitCodeFor(err))
}

func TestStageAndBuild_MissingDest(t *testing.T) {
	isolate(t)
	tree := helpers.NewExampleTree(t).Complete("foo")
	cmd := &StageAndBuildCmd{StageFlags{Source: tree.Root, SkipBuild: true}}

	err := cmd.Run(&Global{Stdout: &bytes.Buffer{}}, &CLI{})
	require.Error(t, err)
	require.Equal(t, ferrors.ExitUsage, exitCodeFor(err))
}

func TestStageAndBuild_WritesReportAndMetrics(t *testing.T) {
	isolate(t)
	tree := helpers.NewExampleTree(t).Complete("foo").Complete("baz")
	dest := filepath.Join(t.TempDir(), "assets")
	reportFile := filepath.Join(t.TempDir(), "out", "report.json")
	metricsFile := filepath.Join(t.TempDir(), "bookstage.prom")

	g := &Global{Stdout: &bytes.Buffer{}}
	cmd := &StageAndBuildCmd{StageFlags{
		Source:      tree.Root,
		Dest:        dest,
		Only:        []string{"foo"},
		SkipBuild:   true,
		Concurrency: 2,
		ReportFile:  reportFile,
		MetricsFile: metricsFile,
	}}
	require.NoError(t, cmd.Run(g, &CLI{}))

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var report struct {
		RunID    string `json:"run_id"`
		Staged   int    `json:"staged"`
		ExitCode int    `json:"exit_code"`
		Examples []struct {
			Name string `json:"name"`
		} `json:"examples"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	require.NotEmpty(t, report.RunID)
	require.Equal(t, 1, report.Staged)
	require.Len(t, report.Examples, 1)
	require.Equal(t, "foo", report.Examples[0].Name)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `bookstage_example_results_total{result="staged"} 1`)

	helpers.NewFileAssertions(t, dest).AssertDirNames(".", "foo")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	g := &Global{Stdout: &out}

	require.NoError(t, (&InitCmd{Output: dir}).Run(g, &CLI{}))
	require.FileExists(t, filepath.Join(dir, "bookstage.yaml"))
	require.Contains(t, out.String(), "Wrote configuration to")

	err := (&InitCmd{Output: dir}).Run(g, &CLI{})
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Output: dir, Force: true}).Run(g, &CLI{}))
}

func TestCheck(t *testing.T) {
	isolate(t)
	book := filepath.Join(t.TempDir(), "src")
	dest := filepath.Join(book, "assets", "code_examples")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "foo"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "foo", "vis_code.svg"), []byte("<svg></svg>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(book, "ch1.md"),
		[]byte("![code](assets/code_examples/foo/vis_code.svg)\n![gone](assets/code_examples/foo/vis_timeline.svg)\n"), 0o600))

	var out bytes.Buffer
	g := &Global{Stdout: &out}
	require.NoError(t, (&CheckCmd{Book: book, Dest: dest}).Run(g, &CLI{}))
	require.Equal(t, ferrors.ExitStagingFailed, g.ExitCode)
	require.Contains(t, out.String(), "assets/code_examples/foo/vis_timeline.svg")
	require.Contains(t, out.String(), "check: 1 problem(s)")
}

func TestCheck_MissingBookDir(t *testing.T) {
	isolate(t)
	err := (&CheckCmd{Book: filepath.Join(t.TempDir(), "nope"), Dest: t.TempDir()}).Run(&Global{}, &CLI{})
	require.Error(t, err)
	require.Equal(t, ferrors.ExitUsage, exitCodeFor(err))
}
