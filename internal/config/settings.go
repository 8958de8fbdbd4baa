package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppMarker is the file that marks a directory as an application directory.
const AppMarker = "app.yaml"

// defaultAppDirName is the application directory under Dir() used when
// nothing else names one.
const defaultAppDirName = "app"

// Settings is the configuration a command runs with. It is resolved once at
// startup and passed down explicitly.
type Settings struct {
	AppDir       string
	WorkDir      string
	Sources      []string
	BuildCommand string
	LogLevel     string
}

// Resolve builds Settings from the loaded configuration. The application
// directory is taken from, in order: flagAppDir, the app_dir key (or
// LABEXT_APP_DIR), the nearest directory at or above workDir holding
// AppMarker, and finally ~/.labext/app.
func Resolve(flagAppDir, workDir string) (*Settings, error) {
	appDir, err := resolveAppDir(flagAppDir, workDir)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		AppDir:       appDir,
		WorkDir:      workDir,
		BuildCommand: viper.GetString(KeyBuildCommand),
		LogLevel:     viper.GetString(KeyLogLevel),
	}
	for _, src := range viper.GetStringSlice(KeySources) {
		s.Sources = append(s.Sources, expandHome(src))
	}
	return s, nil
}

func resolveAppDir(flagAppDir, workDir string) (string, error) {
	candidate := flagAppDir
	if candidate == "" {
		candidate = viper.GetString(KeyAppDir)
	}
	if candidate != "" {
		abs, err := filepath.Abs(expandHome(candidate))
		if err != nil {
			return "", fmt.Errorf("resolving app dir %s: %w", candidate, err)
		}
		return abs, nil
	}

	if dir, ok := FindAppDir(workDir); ok {
		return dir, nil
	}
	return filepath.Join(Dir(), defaultAppDirName), nil
}

// FindAppDir walks up from start looking for a directory that holds
// AppMarker.
func FindAppDir(start string) (string, bool) {
	if start == "" {
		return "", false
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, AppMarker)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
