package examples

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o600))
}

func TestListExamples_ChildDirectoriesInOrder(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"lifetime_struct", "lifetime_circle", ".git", "lifetime_test"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
	writeFile(t, filepath.Join(root, "README.md"))

	seq, err := ListExamples(root)
	require.NoError(t, err)

	want := []Name{"lifetime_circle", "lifetime_struct", "lifetime_test"}
	require.Equal(t, want, slices.Collect(seq))
	// Restartable: a second pass re-reads the directory.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "borrow_mut"), 0o750))
	require.Equal(t, append([]Name{"borrow_mut"}, want...), slices.Collect(seq))
}

func TestListExamples_EarlyStop(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"a", "b", "c"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
	seq, err := ListExamples(root)
	require.NoError(t, err)

	var got []Name
	for n := range seq {
		got = append(got, n)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []Name{"a", "b"}, got)
}

func TestListExamples_FollowsDirectorySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	elsewhere := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "borrow"), 0o750))
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(root, "linked")))
	writeFile(t, filepath.Join(elsewhere, "notes.txt"))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "notes.txt"), filepath.Join(root, "file_link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")))

	seq, err := ListExamples(root)
	require.NoError(t, err)
	require.Equal(t, []Name{"borrow", "linked"}, slices.Collect(seq))
}

func TestListExamples_MissingRoot(t *testing.T) {
	_, err := ListExamples(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestListExamples_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file)
	_, err := ListExamples(file)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foo", "source.rs"))
	writeFile(t, filepath.Join(root, "foo", "vis_code.svg"))
	writeFile(t, filepath.Join(root, "foo", "vis_timeline.svg"))
	writeFile(t, filepath.Join(root, "bar", "source.rs"))
	writeFile(t, filepath.Join(root, "baz", "source.rs"))
	writeFile(t, filepath.Join(root, "baz", "vis_timeline.svg"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "baz", "vis_code.svg"), 0o750))

	st, err := Validate(root, "foo")
	require.NoError(t, err)
	require.True(t, st.Complete())

	st, err = Validate(root, "bar")
	require.NoError(t, err)
	require.False(t, st.Complete())
	require.Equal(t, []Role{RoleCodeVis, RoleTimelineVis}, st.Missing)

	// A directory in place of a file counts as missing.
	st, err = Validate(root, "baz")
	require.NoError(t, err)
	require.Equal(t, []Role{RoleCodeVis}, st.Missing)

	st, err = Validate(root, "ghost")
	require.NoError(t, err)
	require.Equal(t, RequiredRoles, st.Missing)
}

func TestValidate_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	dir := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(dir, "source.rs"))
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o750) })

	_, err := Validate(root, "locked")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryPermission))
}

func TestParseNames(t *testing.T) {
	names, err := ParseNames([]string{"foo,bar", " baz ", "foo", ""})
	require.NoError(t, err)
	require.Equal(t, []Name{"foo", "bar", "baz"}, names)

	for _, bad := range []string{"..", "a/b", `a\b`} {
		_, err := ParseNames([]string{bad})
		require.Error(t, err, bad)
	}
}

func TestRoleFileNames(t *testing.T) {
	require.Equal(t, "source.rs", RoleSource.FileName())
	require.Equal(t, "vis_code.svg", RoleCodeVis.FileName())
	require.Equal(t, "vis_timeline.svg", RoleTimelineVis.FileName())
	require.Equal(t, filepath.Join("/r", "foo", "vis_code.svg"), AssetPath("/r", "foo", RoleCodeVis))
}
