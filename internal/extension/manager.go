package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/labext/internal/logging"
	"github.com/agentx-labs/labext/internal/manifest"
	"github.com/agentx-labs/labext/internal/platform"
	"github.com/agentx-labs/labext/internal/runtime"
)

// Manager manages the extensions of application directories. It satisfies
// dispatch.Manager.
type Manager struct {
	// Sources are searched, in order, for extensions installed by name.
	Sources []string
	// BuildCommand runs in the staging directory during Build; empty skips it.
	BuildCommand string
	// Runner executes BuildCommand. Defaults to an ExecRunner logging output.
	Runner runtime.Runner
}

// New returns a Manager searching sources and running buildCommand.
func New(sources []string, buildCommand string) *Manager {
	return &Manager{Sources: sources, BuildCommand: buildCommand}
}

// Install copies the extension named by id into appDir, replacing any
// previous copy, and records it.
func (m *Manager) Install(ctx context.Context, id, appDir string) error {
	log := logging.FromContext(ctx)

	resolved, err := Resolve(id, m.Sources)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", id, err)
	}
	name := resolved.Manifest.Name

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return err
	}

	dst := extensionDir(appDir, name)
	if _, err := os.Stat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("removing existing installation at %s: %w", dst, err)
		}
	}
	if err := platform.CopyDir(resolved.Dir, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", resolved.Dir, dst, err)
	}

	reg.PutInstalled(Installed{
		Name:    name,
		Version: resolved.Manifest.Version,
		Source:  resolved.Dir,
	})
	if err := SaveRegistry(appDir, reg); err != nil {
		return err
	}

	log.Infof("Installed %s v%s", name, resolved.Manifest.Version)
	return nil
}

// Uninstall removes the installed extension named by id. It reports false
// when nothing was installed under that name.
func (m *Manager) Uninstall(ctx context.Context, id, appDir string) (bool, error) {
	log := logging.FromContext(ctx)

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return false, err
	}
	name := installedName(reg, id, m.Sources)
	if !reg.RemoveInstalled(name) {
		log.Warnf("No labextension named %q installed", name)
		return false, nil
	}

	if err := os.RemoveAll(extensionDir(appDir, name)); err != nil {
		return false, fmt.Errorf("removing %s: %w", name, err)
	}
	if err := SaveRegistry(appDir, reg); err != nil {
		return false, err
	}

	log.Infof("Removed %s", name)
	return true, nil
}

// Link records the package directory named by id so Build takes it from its
// source location.
func (m *Manager) Link(ctx context.Context, id, appDir string) error {
	dir, ok := asDir(id)
	if !ok {
		return fmt.Errorf("%w: %s is not a directory", ErrNotFound, id)
	}
	mf, err := manifest.Load(dir)
	if err != nil {
		return fmt.Errorf("linking %s: %w", id, err)
	}

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return err
	}
	reg.PutLink(Link{Name: mf.Name, Path: dir})
	if err := SaveRegistry(appDir, reg); err != nil {
		return err
	}

	logging.FromContext(ctx).Infof("Linked %s from %s", mf.Name, dir)
	return nil
}

// Unlink removes the link whose name or path matches id. It reports false
// when no link matched.
func (m *Manager) Unlink(ctx context.Context, id, appDir string) (bool, error) {
	key := id
	if dir, ok := asDir(id); ok {
		key = dir
	}

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return false, err
	}
	link := reg.FindLink(key)
	if link == nil {
		logging.FromContext(ctx).Warnf("No linked package for %q", id)
		return false, nil
	}
	removed := *link
	reg.RemoveLink(key)
	if err := SaveRegistry(appDir, reg); err != nil {
		return false, err
	}
	if err := dropStaged(appDir, removed); err != nil {
		return false, err
	}

	logging.FromContext(ctx).Infof("Unlinked %s", id)
	return true, nil
}

// dropStaged removes the staged link of l so a deferred build does not pick
// it up. An installed copy staged under the same name is left alone.
func dropStaged(appDir string, l Link) error {
	staged := filepath.Join(appDir, StagingDir, ExtensionsDir, filepath.FromSlash(l.Name))
	target, err := platform.ReadLinkTarget(staged)
	if err != nil || target != l.Path {
		return nil
	}
	if err := platform.RemoveLink(staged); err != nil {
		return fmt.Errorf("removing staged link %s: %w", staged, err)
	}
	return nil
}

// Enable removes the extension named by id from the disabled list.
func (m *Manager) Enable(ctx context.Context, id, appDir string) error {
	return m.setDisabled(ctx, id, appDir, false)
}

// Disable adds the extension named by id to the disabled list.
func (m *Manager) Disable(ctx context.Context, id, appDir string) error {
	return m.setDisabled(ctx, id, appDir, true)
}

func (m *Manager) setDisabled(ctx context.Context, id, appDir string, disabled bool) error {
	name := nameOf(id, m.Sources)

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return err
	}
	reg.SetDisabled(name, disabled)
	if err := SaveRegistry(appDir, reg); err != nil {
		return err
	}

	verb := "Enabling"
	if disabled {
		verb = "Disabling"
	}
	logging.FromContext(ctx).Infof("%s: %s", verb, name)
	return nil
}

// installedName maps id to the registry name it was installed under. A
// recorded name that matches id literally wins over source resolution.
func installedName(reg *Registry, id string, sources []string) string {
	if reg.FindInstalled(id) != nil {
		return id
	}
	return nameOf(id, sources)
}

// extensionDir is where an installed extension lives in appDir.
func extensionDir(appDir, name string) string {
	return filepath.Join(appDir, ExtensionsDir, filepath.FromSlash(name))
}
