package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "bookstage.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())
		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "bookstage.yaml", file)
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		require.Equal(t, SeverityFatal, NotFoundError("x").Build().Severity())
		require.Equal(t, SeverityError, CopyError("x").Build().Severity())
		require.Equal(t, SeverityWarning, MissingAssetsError("x").Build().Severity())
		require.Equal(t, RetryUserAction, BuildError("x").Build().RetryStrategy())
	})

	t.Run("Wrapped chain", func(t *testing.T) {
		cause := errors.New("disk full")
		err := WrapError(cause, CategoryCopy, "copy failed").Build()
		wrapped := fmt.Errorf("example foo: %w", err)

		require.ErrorIs(t, wrapped, cause)
		require.True(t, HasCategory(wrapped, CategoryCopy))
		require.Equal(t, CategoryCopy, GetCategory(wrapped))
		require.Equal(t, CategoryInternal, GetCategory(cause))
		require.Contains(t, err.Error(), "[copy:error] copy failed: disk full")
	})

	t.Run("WithContext does not mutate receiver", func(t *testing.T) {
		base := PermissionError("denied").Build()
		derived := base.WithContext("example", "foo")

		_, ok := base.Context().Get("example")
		require.False(t, ok)
		v, ok := derived.Context().GetString("example")
		require.True(t, ok)
		require.Equal(t, "foo", v)
	})
}
