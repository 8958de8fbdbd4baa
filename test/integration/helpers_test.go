//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/labext/internal/extension"
	"github.com/agentx-labs/labext/internal/logging"
	"github.com/sirupsen/logrus"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, holds .labext/
	AppDir     string // the application directory under test
	CatalogDir string // the extension source searched by name
	WorkDir    string // a package checkout used for link
	Log        *bytes.Buffer
	Ctx        context.Context
}

// setupTestEnv creates isolated temp directories and a context whose logger
// writes into env.Log.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		AppDir:     t.TempDir(),
		CatalogDir: t.TempDir(),
		WorkDir:    t.TempDir(),
		Log:        &bytes.Buffer{},
	}
	t.Setenv("HOME", env.HomeDir)

	l, err := logging.New(env.Log, "debug")
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	env.Ctx = logging.WithLogger(context.Background(), logrus.NewEntry(l))
	return env
}

// setupCatalog writes a synthetic catalog of three extensions.
func setupCatalog(t *testing.T, env *testEnv) {
	t.Helper()

	writeExtension(t, filepath.Join(env.CatalogDir, "markdown-preview"), `name: markdown-preview
version: "1.2.0"
description: Render markdown side by side
kind: mime
`)
	writeExtension(t, filepath.Join(env.CatalogDir, "dark-theme"), `name: dark-theme
version: "0.3.1"
description: A dark theme
kind: theme
`)
	writeExtension(t, filepath.Join(env.CatalogDir, "toc"), `name: toc
version: "2.0.0"
description: Table of contents
requires:
  markdown-preview: ">=1.0.0"
`)
}

// newManager returns a manager searching env.CatalogDir.
func newManager(env *testEnv, buildCommand string) *extension.Manager {
	return extension.New([]string{env.CatalogDir}, buildCommand)
}

func writeExtension(t *testing.T, dir, manifestYAML string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "extension.yaml"), manifestYAML)
	writeFile(t, filepath.Join(dir, "index.js"), "export default {};\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readBuild(t *testing.T, appDir string) extension.BuildOutput {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(appDir, extension.StaticDir, extension.BuildFile))
	if err != nil {
		t.Fatalf("reading build output: %v", err)
	}
	var out extension.BuildOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("parsing build output: %v", err)
	}
	return out
}

func builtNames(out extension.BuildOutput) []string {
	names := make([]string, 0, len(out.Extensions))
	for _, e := range out.Extensions {
		names = append(names, e.Name)
	}
	return names
}

func loadRegistry(t *testing.T, appDir string) *extension.Registry {
	t.Helper()
	reg, err := extension.LoadRegistry(appDir)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	return reg
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %s to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist", path)
	}
}

func assertLogContains(t *testing.T, env *testEnv, substr string) {
	t.Helper()
	if !strings.Contains(env.Log.String(), substr) {
		t.Errorf("log does not contain %q:\n%s", substr, env.Log.String())
	}
}
