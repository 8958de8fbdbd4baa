package extension

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	labruntime "github.com/agentx-labs/labext/internal/runtime"
)

// recordingRunner captures the build command instead of executing it.
type recordingRunner struct {
	dir      string
	argv     []string
	env      map[string]string
	exitCode int
	staged   []string
}

func (r *recordingRunner) Run(_ context.Context, dir string, argv []string, env map[string]string) (*labruntime.Output, error) {
	r.dir, r.argv, r.env = dir, argv, env
	entries, _ := os.ReadDir(filepath.Join(dir, ExtensionsDir))
	for _, e := range entries {
		r.staged = append(r.staged, e.Name())
	}
	return &labruntime.Output{ExitCode: r.exitCode}, nil
}

func readBuildOutput(t *testing.T, appDir string) BuildOutput {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(appDir, StaticDir, BuildFile))
	if err != nil {
		t.Fatalf("reading build output: %v", err)
	}
	var out BuildOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("parsing build output: %v", err)
	}
	return out
}

func setupApp(t *testing.T) (string, *Manager) {
	t.Helper()
	ctx, _ := testContext(t)
	srcRoot := t.TempDir()
	appDir := t.TempDir()
	m := New(nil, "")

	for _, ext := range []struct{ dir, yaml string }{
		{"csv-viewer", "name: csv-viewer\nversion: 1.0.0\n"},
		{"dark-theme", "name: dark-theme\nversion: 0.2.0\nkind: theme\n"},
	} {
		if err := m.Install(ctx, writeExtension(t, srcRoot, ext.dir, ext.yaml), appDir); err != nil {
			t.Fatal(err)
		}
	}
	pkg := writeExtension(t, srcRoot, "work/plots", "name: plots\nversion: 0.3.0\n")
	if err := m.Link(ctx, pkg, appDir); err != nil {
		t.Fatal(err)
	}
	if err := m.Disable(ctx, "dark-theme", appDir); err != nil {
		t.Fatal(err)
	}
	return appDir, m
}

func TestBuildStagesEnabledExtensions(t *testing.T) {
	ctx, _ := testContext(t)
	appDir, m := setupApp(t)

	if err := m.Build(ctx, appDir, false); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := readBuildOutput(t, appDir)
	want := []BuildEntry{
		{Name: "csv-viewer", Version: "1.0.0"},
		{Name: "plots", Version: "0.3.0", Linked: true},
	}
	if len(out.Extensions) != len(want) {
		t.Fatalf("Extensions = %+v, want %+v", out.Extensions, want)
	}
	for i := range want {
		if out.Extensions[i] != want[i] {
			t.Errorf("Extensions[%d] = %+v, want %+v", i, out.Extensions[i], want[i])
		}
	}

	staged := filepath.Join(appDir, StagingDir, ExtensionsDir)
	if _, err := os.Stat(filepath.Join(staged, "csv-viewer", "index.js")); err != nil {
		t.Errorf("installed extension not staged: %v", err)
	}
	if _, err := os.Stat(filepath.Join(staged, "dark-theme")); err == nil {
		t.Error("disabled extension should not be staged")
	}
	if runtime.GOOS != "windows" {
		info, err := os.Lstat(filepath.Join(staged, "plots"))
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			t.Errorf("linked package should be staged as a symlink: %v", err)
		}
	}
}

func TestBuildCleanRemovesStaging(t *testing.T) {
	ctx, _ := testContext(t)
	appDir, m := setupApp(t)

	if err := m.Build(ctx, appDir, true); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(appDir, StagingDir)); !os.IsNotExist(err) {
		t.Error("staging should be removed when cleaning")
	}
	if _, err := os.Stat(filepath.Join(appDir, StaticDir, BuildFile)); err != nil {
		t.Errorf("build output should survive cleaning: %v", err)
	}
}

func TestBuildRunsCommandInStaging(t *testing.T) {
	ctx, _ := testContext(t)
	appDir, m := setupApp(t)
	runner := &recordingRunner{}
	m.BuildCommand = "npm run build"
	m.Runner = runner

	if err := m.Build(ctx, appDir, false); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if runner.dir != filepath.Join(appDir, StagingDir) {
		t.Errorf("command ran in %q", runner.dir)
	}
	if strings.Join(runner.argv, " ") != "npm run build" {
		t.Errorf("argv = %v", runner.argv)
	}
	if runner.env["LABEXT_APP_DIR"] != appDir {
		t.Errorf("LABEXT_APP_DIR = %q, want %q", runner.env["LABEXT_APP_DIR"], appDir)
	}
	if strings.Join(runner.staged, ",") != "csv-viewer,plots" {
		t.Errorf("staged before command = %v", runner.staged)
	}
}

func TestBuildCommandFailure(t *testing.T) {
	ctx, _ := testContext(t)
	appDir, m := setupApp(t)
	m.BuildCommand = "make assets"
	m.Runner = &recordingRunner{exitCode: 2}

	err := m.Build(ctx, appDir, true)
	if err == nil {
		t.Fatal("expected build failure")
	}
	if !strings.Contains(err.Error(), "status 2") {
		t.Errorf("error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(appDir, StaticDir, BuildFile)); err == nil {
		t.Error("failed build should not write output")
	}
	if _, err := os.Stat(filepath.Join(appDir, StagingDir)); err != nil {
		t.Error("failed build should leave staging for inspection")
	}
}

func TestBuildEmptyApp(t *testing.T) {
	ctx, _ := testContext(t)
	appDir := t.TempDir()

	if err := New(nil, "").Build(ctx, appDir, false); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if out := readBuildOutput(t, appDir); len(out.Extensions) != 0 {
		t.Errorf("Extensions = %+v, want none", out.Extensions)
	}
}

func TestBuildLinkShadowsInstalled(t *testing.T) {
	ctx, _ := testContext(t)
	srcRoot, appDir := t.TempDir(), t.TempDir()
	m := New(nil, "")

	if err := m.Install(ctx, writeExtension(t, srcRoot, "released/plots", "name: plots\nversion: 1.0.0\n"), appDir); err != nil {
		t.Fatal(err)
	}
	if err := m.Link(ctx, writeExtension(t, srcRoot, "dev/plots", "name: plots\nversion: 1.1.0-dev\n"), appDir); err != nil {
		t.Fatal(err)
	}
	if err := m.Build(ctx, appDir, false); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := readBuildOutput(t, appDir)
	if len(out.Extensions) != 1 || !out.Extensions[0].Linked || out.Extensions[0].Version != "1.1.0-dev" {
		t.Errorf("Extensions = %+v, want the linked plots only", out.Extensions)
	}
}
