package classpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/imageforge/internal/entrypoint"
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

func writeManifest(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

const appManifest = `class: com.example.App
methods:
  - name: main
    params: ["java.lang.String[]"]
    return: void
    public: true
`

func TestResolve(t *testing.T) {
	t.Run("absolute deduplicated entries in order", func(t *testing.T) {
		a := t.TempDir()
		b := t.TempDir()
		resolved, err := Resolve([]string{a, b, a})
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, resolved)
		for _, p := range resolved {
			assert.True(t, filepath.IsAbs(p))
		}
	})

	t.Run("missing entry fails with configuration error", func(t *testing.T) {
		_, err := Resolve([]string{filepath.Join(t.TempDir(), "gone")})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
		assert.Contains(t, err.Error(), "-imagecp")
	})

	t.Run("empty entry fails", func(t *testing.T) {
		_, err := Resolve([]string{""})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})
}

func TestBuildIndex(t *testing.T) {
	t.Run("loads manifests from classpath entries", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "app.class.yaml", appManifest)
		ix, err := BuildIndex([]string{dir})
		require.NoError(t, err)
		require.Equal(t, 1, ix.Len())
		cls, ok := ix.Lookup("com.example.App")
		require.True(t, ok)
		m, ok := cls.Method("main", []entrypoint.TypeDesc{entrypoint.TypeStringArray})
		require.True(t, ok)
		assert.True(t, m.Public)
		assert.Equal(t, entrypoint.TypeVoid, m.Return)
	})

	t.Run("earlier entries shadow later ones", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		writeManifest(t, first, "app.class.yaml", appManifest)
		writeManifest(t, second, "app.class.yaml", `class: com.example.App
methods:
  - name: other
    params: []
    return: void
    public: true
`)
		ix, err := BuildIndex([]string{first, second})
		require.NoError(t, err)
		cls, ok := ix.Lookup("com.example.App")
		require.True(t, ok)
		_, hasMain := cls.Method("main", []entrypoint.TypeDesc{entrypoint.TypeStringArray})
		assert.True(t, hasMain)
	})

	t.Run("malformed manifest fails classified", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "bad.class.yaml", "class: [not: valid")
		_, err := BuildIndex([]string{dir})
		require.Error(t, err)
		assert.Equal(t, ferrors.KindConfiguration, ferrors.KindOf(err))
	})

	t.Run("manifest without class name fails", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "anon.class.yaml", "methods: []\n")
		_, err := BuildIndex([]string{dir})
		require.Error(t, err)
	})
}
