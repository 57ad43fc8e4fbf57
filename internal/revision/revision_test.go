package revision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	helpers "git.home.luguber.info/inful/bookstage/internal/testutil/testutils"
)

func TestRead_FromNestedExamplesDir(t *testing.T) {
	_, w, dir := helpers.SetupTestGitRepo(t, "")
	examples := filepath.Join(dir, "src", "examples", "lifetime_circle")
	require.NoError(t, os.MkdirAll(examples, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(examples, "source.rs"), []byte("fn main(){}\n"), 0o600))
	want := helpers.CommitAll(t, w, "add example")

	got, err := Read(filepath.Join(dir, "src", "examples"))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Len(t, Short(got), 12)
}

func TestRead_NotARepository(t *testing.T) {
	got, err := Read(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRead_NoCommits(t *testing.T) {
	_, _, dir := helpers.SetupTestGitRepo(t, "")
	got, err := Read(dir)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRead_BrokenHeadIsAnError(t *testing.T) {
	_, _, dir := helpers.SetupTestGitRepo(t, "")
	// A symbolic reference that points at itself never resolves.
	loop := filepath.Join(dir, ".git", "refs", "heads", "loop")
	require.NoError(t, os.MkdirAll(filepath.Dir(loop), 0o750))
	require.NoError(t, os.WriteFile(loop, []byte("ref: refs/heads/loop\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/loop\n"), 0o600))

	got, err := Read(dir)
	require.Error(t, err)
	require.Empty(t, got)
}
