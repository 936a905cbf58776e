package inkwell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDevAssets(t *testing.T) {
	refs, err := NewDevAssets("http://localhost:5173/", "src/entry-client.tsx").Resolve()
	require.NoError(t, err)
	assert.Empty(t, refs.Styles)
	assert.Equal(t, []string{
		"http://localhost:5173/@vite/client",
		"http://localhost:5173/src/entry-client.tsx",
	}, refs.Scripts)
}

func TestManifestAssets(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ".vite/manifest.json", `{
		"src/entry-client.tsx": {
			"file": "assets/entry-abc123.js",
			"css": ["assets/entry-abc123.css"],
			"isEntry": true
		}
	}`)

	resolver, err := NewManifestAssets(dir, "src/entry-client.tsx")
	require.NoError(t, err)
	refs, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"/assets/entry-abc123.js"}, refs.Scripts)
	assert.Equal(t, []string{"/assets/entry-abc123.css"}, refs.Styles)
}

func TestManifestAssetsLegacyLocation(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "manifest.json", `{
		"src/entry-client.tsx": {"file": "assets/app.js", "isEntry": true}
	}`)

	resolver, err := NewManifestAssets(dir, "src/entry-client.tsx")
	require.NoError(t, err)
	refs, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"/assets/app.js"}, refs.Scripts)
}

func TestManifestAssetsFallsBackToAnyEntry(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ".vite/manifest.json", `{
		"src/other.tsx": {"file": "assets/other.js", "isEntry": true},
		"src/chunk.ts": {"file": "assets/chunk.js"}
	}`)

	resolver, err := NewManifestAssets(dir, "src/entry-client.tsx")
	require.NoError(t, err)
	refs, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"/assets/other.js"}, refs.Scripts)
}

func TestManifestAssetsMissing(t *testing.T) {
	_, err := NewManifestAssets(t.TempDir(), "src/entry-client.tsx")
	assert.Error(t, err)
}

func TestLazyManifestAssetsDefersError(t *testing.T) {
	resolver := NewLazyManifestAssets(t.TempDir(), "src/entry-client.tsx")
	_, err := resolver.Resolve()
	assert.Error(t, err)
	// The error is cached, not re-evaluated.
	_, err = resolver.Resolve()
	assert.Error(t, err)
}
