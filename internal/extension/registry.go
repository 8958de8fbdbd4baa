package extension

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/labext/internal/config"
	"go.yaml.in/yaml/v3"
)

// Layout of an application directory.
const (
	RegistryFile  = config.AppMarker
	ExtensionsDir = "extensions"
	StagingDir    = "staging"
	StaticDir     = "static"
	BuildFile     = "build.json"
)

// Registry is the app.yaml file of an application directory.
type Registry struct {
	Installed []Installed `yaml:"installed"`
	Links     []Link      `yaml:"links,omitempty"`
	Disabled  []string    `yaml:"disabled,omitempty"`
}

// Installed records an extension copied into the application directory.
type Installed struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
}

// Link records a package built from its source location.
type Link struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LoadRegistry reads app.yaml from appDir. A missing file yields an empty
// registry.
func LoadRegistry(appDir string) (*Registry, error) {
	path := filepath.Join(appDir, RegistryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg to app.yaml in appDir, creating appDir if needed.
func SaveRegistry(appDir string, reg *Registry) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("creating app dir %s: %w", appDir, err)
	}

	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	path := filepath.Join(appDir, RegistryFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing registry %s: %w", path, err)
	}
	return nil
}

// FindInstalled returns the installed extension with the given name, or nil.
func (r *Registry) FindInstalled(name string) *Installed {
	for i := range r.Installed {
		if r.Installed[i].Name == name {
			return &r.Installed[i]
		}
	}
	return nil
}

// PutInstalled adds or replaces an installed entry.
func (r *Registry) PutInstalled(entry Installed) {
	if existing := r.FindInstalled(entry.Name); existing != nil {
		*existing = entry
		return
	}
	r.Installed = append(r.Installed, entry)
}

// RemoveInstalled removes an installed entry and reports whether it existed.
func (r *Registry) RemoveInstalled(name string) bool {
	for i, e := range r.Installed {
		if e.Name == name {
			r.Installed = append(r.Installed[:i], r.Installed[i+1:]...)
			return true
		}
	}
	return false
}

// FindLink returns the link whose name or path matches, or nil.
func (r *Registry) FindLink(nameOrPath string) *Link {
	for i := range r.Links {
		if r.Links[i].Name == nameOrPath || r.Links[i].Path == nameOrPath {
			return &r.Links[i]
		}
	}
	return nil
}

// PutLink adds or replaces a link by name.
func (r *Registry) PutLink(link Link) {
	for i := range r.Links {
		if r.Links[i].Name == link.Name {
			r.Links[i] = link
			return
		}
	}
	r.Links = append(r.Links, link)
}

// RemoveLink removes every link whose name or path matches and reports
// whether any did.
func (r *Registry) RemoveLink(nameOrPath string) bool {
	kept := r.Links[:0]
	removed := false
	for _, l := range r.Links {
		if l.Name == nameOrPath || l.Path == nameOrPath {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	r.Links = kept
	return removed
}

// IsDisabled reports whether name is on the disabled list.
func (r *Registry) IsDisabled(name string) bool {
	for _, d := range r.Disabled {
		if d == name {
			return true
		}
	}
	return false
}

// SetDisabled adds name to or removes it from the disabled list.
func (r *Registry) SetDisabled(name string, disabled bool) {
	if disabled {
		if !r.IsDisabled(name) {
			r.Disabled = append(r.Disabled, name)
		}
		return
	}
	kept := r.Disabled[:0]
	for _, d := range r.Disabled {
		if d != name {
			kept = append(kept, d)
		}
	}
	r.Disabled = kept
}
