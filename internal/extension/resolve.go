package extension

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/labext/internal/manifest"
)

// ErrNotFound is returned when an identifier names no extension.
var ErrNotFound = errors.New("extension not found")

// Resolved is an extension located on disk.
type Resolved struct {
	Dir      string
	Manifest *manifest.Manifest
}

// Resolve locates the extension named by id. An id that is an existing
// directory is read directly; otherwise it is looked up by name in sources,
// first match wins.
func Resolve(id string, sources []string) (*Resolved, error) {
	if dir, ok := asDir(id); ok {
		return load(dir)
	}

	for _, src := range sources {
		dir := filepath.Join(src, filepath.FromSlash(id))
		if !manifest.Exists(dir) {
			continue
		}
		return load(dir)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// nameOf returns the extension name an identifier refers to. The id is
// resolved the way Install resolves it, so a source directory whose name
// differs from its manifest maps to the manifest name. A directory with an
// unvalidated manifest falls back to that manifest's name, else id itself.
func nameOf(id string, sources []string) string {
	if r, err := Resolve(id, sources); err == nil {
		return r.Manifest.Name
	}
	if dir, ok := asDir(id); ok && manifest.Exists(dir) {
		if m, err := manifest.Parse(filepath.Join(dir, manifest.FileName)); err == nil && m.Name != "" {
			return m.Name
		}
	}
	return id
}

func load(dir string) (*Resolved, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Resolved{Dir: dir, Manifest: m}, nil
}

// asDir returns the absolute path of id when it is an existing directory.
func asDir(id string) (string, bool) {
	info, err := os.Stat(id)
	if err != nil || !info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(id)
	if err != nil {
		return "", false
	}
	return abs, true
}
