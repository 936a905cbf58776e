package inkwell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// AssetRefs is the set of stylesheet and script URLs injected into the
// rendered document.
type AssetRefs struct {
	Styles  []string
	Scripts []string
}

// AssetResolver yields the asset references for the current build mode.
// The implementation is chosen once at startup; render code never branches
// on the mode itself.
type AssetResolver interface {
	Resolve() (AssetRefs, error)
}

// devAssets points the document at the live dev server, which serves the
// hot-reload client and transforms sources on the fly.
type devAssets struct {
	serverURL string
	entry     string
}

// NewDevAssets returns the development-mode resolver.
func NewDevAssets(serverURL, entry string) AssetResolver {
	return devAssets{serverURL: strings.TrimRight(serverURL, "/"), entry: entry}
}

func (d devAssets) Resolve() (AssetRefs, error) {
	return AssetRefs{
		Scripts: []string{
			d.serverURL + "/@vite/client",
			d.serverURL + "/" + d.entry,
		},
	}, nil
}

// manifestAssets reads the build manifest once and serves the hashed
// filenames for the client entry point from memory afterwards.
type manifestAssets struct {
	refs AssetRefs
}

// manifestEntry is the subset of a Vite manifest chunk the resolver needs.
type manifestEntry struct {
	File    string   `json:"file"`
	CSS     []string `json:"css"`
	IsEntry bool     `json:"isEntry"`
}

// NewManifestAssets loads <distDir>/.vite/manifest.json (falling back to the
// legacy manifest.json location) and resolves the refs for entry.
func NewManifestAssets(distDir, entry string) (AssetResolver, error) {
	raw, err := os.ReadFile(filepath.Join(distDir, ".vite", "manifest.json"))
	if err != nil {
		raw, err = os.ReadFile(filepath.Join(distDir, "manifest.json"))
		if err != nil {
			return nil, fmt.Errorf("inkwell: read build manifest: %w", err)
		}
	}
	var manifest map[string]manifestEntry
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("inkwell: parse build manifest: %w", err)
	}

	chunk, ok := manifest[entry]
	if !ok {
		for _, e := range manifest {
			if e.IsEntry {
				chunk = e
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("inkwell: entry %q not found in build manifest", entry)
	}

	refs := AssetRefs{Scripts: []string{"/" + chunk.File}}
	for _, css := range chunk.CSS {
		refs.Styles = append(refs.Styles, "/"+css)
	}
	return manifestAssets{refs: refs}, nil
}

func (m manifestAssets) Resolve() (AssetRefs, error) {
	return m.refs, nil
}

// lazyManifestAssets defers reading the manifest until the first render, so
// commands that never render (seeding, migrations) work without a client
// build present.
type lazyManifestAssets struct {
	distDir string
	entry   string

	once  sync.Once
	inner AssetResolver
	err   error
}

// NewLazyManifestAssets returns a resolver that loads the manifest on first
// use and caches the result.
func NewLazyManifestAssets(distDir, entry string) AssetResolver {
	return &lazyManifestAssets{distDir: distDir, entry: entry}
}

func (l *lazyManifestAssets) Resolve() (AssetRefs, error) {
	l.once.Do(func() {
		l.inner, l.err = NewManifestAssets(l.distDir, l.entry)
	})
	if l.err != nil {
		return AssetRefs{}, l.err
	}
	return l.inner.Resolve()
}

// staticAssets is a fixed resolver, handy for tests and for deployments that
// inline their own asset list in config.
type staticAssets struct {
	refs AssetRefs
}

// NewStaticAssets returns a resolver that always yields refs.
func NewStaticAssets(refs AssetRefs) AssetResolver {
	return staticAssets{refs: refs}
}

func (s staticAssets) Resolve() (AssetRefs, error) {
	return s.refs, nil
}
