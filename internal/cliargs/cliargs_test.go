package cliargs

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

func joinCP(entries ...string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}

func TestExtractClasspath(t *testing.T) {
	t.Run("splits entries and removes marker and value", func(t *testing.T) {
		args := []string{"-H:Name=app", ClasspathFlag, joinCP("a", "b", "c"), "-H:Kind=executable"}
		entries, rest, err := ExtractClasspath(args)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, entries)
		assert.Equal(t, []string{"-H:Name=app", "-H:Kind=executable"}, rest)
	})

	t.Run("missing marker fails with configuration error", func(t *testing.T) {
		_, _, err := ExtractClasspath([]string{"-H:Name=app"})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("marker without value fails", func(t *testing.T) {
		_, _, err := ExtractClasspath([]string{"-H:Name=app", ClasspathFlag})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("duplicate marker fails", func(t *testing.T) {
		_, _, err := ExtractClasspath([]string{ClasspathFlag, "a", ClasspathFlag, "b"})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("single entry classpath", func(t *testing.T) {
		entries, rest, err := ExtractClasspath([]string{ClasspathFlag, "lib"})
		require.NoError(t, err)
		assert.Equal(t, []string{"lib"}, entries)
		assert.Empty(t, rest)
	})
}

func TestExtractWatchPid(t *testing.T) {
	t.Run("absent marker returns sentinel and untouched args", func(t *testing.T) {
		args := []string{"-H:Name=app"}
		pid, rest, err := ExtractWatchPid(args)
		require.NoError(t, err)
		assert.Equal(t, WatchPidNone, pid)
		assert.Equal(t, args, rest)
	})

	t.Run("valid pid is parsed and removed", func(t *testing.T) {
		pid, rest, err := ExtractWatchPid([]string{"-H:Name=app", WatchPidFlag, "4242", "-H:Kind=executable"})
		require.NoError(t, err)
		assert.Equal(t, 4242, pid)
		assert.Equal(t, []string{"-H:Name=app", "-H:Kind=executable"}, rest)
	})

	t.Run("non-integer pid fails with configuration error", func(t *testing.T) {
		_, _, err := ExtractWatchPid([]string{WatchPidFlag, "not-a-pid"})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("negative pid fails", func(t *testing.T) {
		_, _, err := ExtractWatchPid([]string{WatchPidFlag, "-7"})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("marker without value fails", func(t *testing.T) {
		_, _, err := ExtractWatchPid([]string{"-H:Name=app", WatchPidFlag})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})
}
