package extension

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/labext/internal/logging"
	"github.com/sirupsen/logrus"
)

// writeExtension creates dir/<dirName> with a manifest and an index file and
// returns its path.
func writeExtension(t *testing.T, root, dirName, manifestYAML string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(dirName))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extension.yaml"), []byte(manifestYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte("export default {};\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// testContext returns a context whose logger writes into the returned buffer.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := logging.New(&buf, "debug")
	if err != nil {
		t.Fatal(err)
	}
	return logging.WithLogger(context.Background(), logrus.NewEntry(l)), &buf
}

func mustLoadRegistry(t *testing.T, appDir string) *Registry {
	t.Helper()
	reg, err := LoadRegistry(appDir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	return reg
}
