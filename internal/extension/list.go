package extension

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/labext/internal/logging"
	"github.com/agentx-labs/labext/internal/manifest"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Status of a listed extension.
const (
	StatusOK      = "OK"
	StatusMissing = "missing"
	StatusUnmet   = "unmet"
)

// Entry describes one installed or linked extension.
type Entry struct {
	Name    string
	Version string
	Kind    string
	Enabled bool
	Linked  bool
	Path    string
	Status  string
	Unmet   []string
}

// Entries returns every installed and linked extension of appDir sorted by
// name, with requirement checks against the enabled set.
func Entries(appDir string) ([]Entry, error) {
	reg, err := LoadRegistry(appDir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	manifests := map[string]*manifest.Manifest{}
	versions := map[string]string{}

	for _, inst := range reg.Installed {
		e := Entry{
			Name:    inst.Name,
			Version: inst.Version,
			Enabled: !reg.IsDisabled(inst.Name),
			Path:    extensionDir(appDir, inst.Name),
			Status:  StatusOK,
		}
		mf, err := manifest.Parse(filepath.Join(e.Path, manifest.FileName))
		if err != nil {
			e.Status = StatusMissing
		} else {
			e.Kind = mf.EffectiveKind()
			manifests[inst.Name] = mf
		}
		if e.Enabled {
			versions[inst.Name] = inst.Version
		}
		entries = append(entries, e)
	}

	for _, l := range reg.Links {
		e := Entry{
			Name:    l.Name,
			Enabled: !reg.IsDisabled(l.Name),
			Linked:  true,
			Path:    l.Path,
			Status:  StatusOK,
		}
		mf, err := loadLinked(l)
		if err != nil {
			e.Status = StatusMissing
		} else {
			e.Version = mf.Version
			e.Kind = mf.EffectiveKind()
			manifests[linkKey(l.Name)] = mf
			if e.Enabled {
				versions[l.Name] = mf.Version
			}
		}
		entries = append(entries, e)
	}

	for i := range entries {
		e := &entries[i]
		key := e.Name
		if e.Linked {
			key = linkKey(e.Name)
		}
		mf, ok := manifests[key]
		if !ok || !e.Enabled {
			continue
		}
		if unmet := mf.Unmet(versions); len(unmet) > 0 {
			e.Unmet = unmet
			e.Status = StatusUnmet
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ListInstalled logs the extensions of appDir.
func (m *Manager) ListInstalled(ctx context.Context, appDir string) error {
	log := logging.FromContext(ctx)

	entries, err := Entries(appDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		log.Infof("No installed extensions in %s", appDir)
		return nil
	}

	log.Info("Known labextensions:")
	log.Infof("   app dir: %s", appDir)

	linked := 0
	for _, e := range entries {
		state := "enabled"
		if !e.Enabled {
			state = "disabled"
		}
		version := e.Version
		if version == "" {
			version = "?"
		}

		line := printer.Sprintf("        %s v%s  %s  %s", e.Name, version, state, e.Status)
		if e.Kind != "" && e.Kind != manifest.KindExtension {
			line += printer.Sprintf("  [%s]", e.Kind)
		}
		if e.Linked {
			linked++
			line += printer.Sprintf("  (linked: %s)", e.Path)
		}
		log.Info(line)
		for _, u := range e.Unmet {
			log.Warnf("            requires %s", u)
		}
	}

	log.Info(printer.Sprintf("%d extension(s), %d linked", len(entries), linked))
	return nil
}

func loadLinked(l Link) (*manifest.Manifest, error) {
	return manifest.Parse(filepath.Join(l.Path, manifest.FileName))
}

// linkKey keeps a linked manifest apart from an installed one of the same name.
func linkKey(name string) string {
	return "link:" + name
}
