package extension

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/labext/internal/branding"
	"github.com/agentx-labs/labext/internal/logging"
	"github.com/agentx-labs/labext/internal/platform"
	"github.com/agentx-labs/labext/internal/runtime"
	"github.com/sirupsen/logrus"
)

// BuildOutput is written to static/build.json.
type BuildOutput struct {
	Extensions []BuildEntry `json:"extensions"`
}

// BuildEntry is one enabled extension included in a build.
type BuildEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Linked  bool   `json:"linked,omitempty"`
}

// Build stages every enabled extension, runs the build command in the
// staging directory, and writes static/build.json. When cleanStaging is set
// the staging directory is removed after a successful build.
func (m *Manager) Build(ctx context.Context, appDir string, cleanStaging bool) error {
	log := logging.FromContext(ctx)

	reg, err := LoadRegistry(appDir)
	if err != nil {
		return err
	}

	staging := filepath.Join(appDir, StagingDir)
	entries, err := stage(reg, appDir, staging)
	if err != nil {
		return fmt.Errorf("staging build: %w", err)
	}
	log.Infof("Building with %d extension(s)", len(entries))

	if err := m.runBuildCommand(ctx, appDir, staging); err != nil {
		return err
	}

	if err := writeBuildOutput(appDir, entries); err != nil {
		return err
	}

	if cleanStaging {
		if err := os.RemoveAll(staging); err != nil {
			return fmt.Errorf("cleaning staging directory: %w", err)
		}
		log.Debugf("Removed %s", staging)
	}
	return nil
}

// stage rebuilds the staging directory from the registry. Linked packages
// shadow installed copies of the same name.
func stage(reg *Registry, appDir, staging string) ([]BuildEntry, error) {
	if err := os.RemoveAll(staging); err != nil {
		return nil, err
	}
	stagedExts := filepath.Join(staging, ExtensionsDir)
	if err := os.MkdirAll(stagedExts, 0755); err != nil {
		return nil, err
	}

	byName := map[string]BuildEntry{}
	for _, l := range reg.Links {
		if reg.IsDisabled(l.Name) {
			continue
		}
		version := "unknown"
		if mf, err := loadLinked(l); err == nil {
			version = mf.Version
		}
		byName[l.Name] = BuildEntry{Name: l.Name, Version: version, Linked: true}

		dst := filepath.Join(stagedExts, filepath.FromSlash(l.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, err
		}
		if err := platform.LinkDir(l.Path, dst); err != nil {
			return nil, fmt.Errorf("linking %s: %w", l.Name, err)
		}
	}

	for _, inst := range reg.Installed {
		if reg.IsDisabled(inst.Name) {
			continue
		}
		if _, linked := byName[inst.Name]; linked {
			continue
		}
		byName[inst.Name] = BuildEntry{Name: inst.Name, Version: inst.Version}

		dst := filepath.Join(stagedExts, filepath.FromSlash(inst.Name))
		if err := platform.CopyDir(extensionDir(appDir, inst.Name), dst); err != nil {
			return nil, fmt.Errorf("copying %s: %w", inst.Name, err)
		}
	}

	entries := make([]BuildEntry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *Manager) runBuildCommand(ctx context.Context, appDir, staging string) error {
	argv := runtime.SplitCommand(m.BuildCommand)
	if len(argv) == 0 {
		return nil
	}

	log := logging.FromContext(ctx)
	runner := m.Runner
	if runner == nil {
		stdout := log.WriterLevel(logrus.InfoLevel)
		defer stdout.Close()
		stderr := log.WriterLevel(logrus.WarnLevel)
		defer stderr.Close()
		runner = &runtime.ExecRunner{Stdout: stdout, Stderr: stderr}
	}

	log.Debugf("Running %q in %s", m.BuildCommand, staging)
	out, err := runner.Run(ctx, staging, argv, map[string]string{
		branding.EnvVar("app_dir"): appDir,
		branding.EnvVar("staging"): staging,
	})
	if err != nil {
		return fmt.Errorf("running build command: %w", err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("build command %q exited with status %d", m.BuildCommand, out.ExitCode)
	}
	return nil
}

func writeBuildOutput(appDir string, entries []BuildEntry) error {
	dir := filepath.Join(appDir, StaticDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(BuildOutput{Extensions: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling build output: %w", err)
	}

	path := filepath.Join(dir, BuildFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
