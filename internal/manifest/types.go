package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FileName is the manifest file expected at the root of every extension.
const FileName = "extension.yaml"

// Extension kinds.
const (
	KindExtension = "extension"
	KindMime      = "mime"
	KindTheme     = "theme"
)

// Manifest describes one extension.
type Manifest struct {
	Name        string            `yaml:"name" json:"name"`
	Version     string            `yaml:"version" json:"version"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Author      string            `yaml:"author,omitempty" json:"author,omitempty"`
	Requires    map[string]string `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// EffectiveKind returns Kind, defaulting to KindExtension.
func (m *Manifest) EffectiveKind() string {
	if m.Kind == "" {
		return KindExtension
	}
	return m.Kind
}

// SemVer parses Version. A leading "v" is tolerated.
func (m *Manifest) SemVer() (*semver.Version, error) {
	return parseSemver(m.Version)
}

// Unmet returns a message for every entry of Requires that versions does not
// satisfy. versions maps extension name to version string.
func (m *Manifest) Unmet(versions map[string]string) []string {
	var unmet []string
	for name, constraint := range m.Requires {
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			unmet = append(unmet, fmt.Sprintf("%s: invalid constraint %q", name, constraint))
			continue
		}
		have, ok := versions[name]
		if !ok {
			unmet = append(unmet, fmt.Sprintf("%s %s is not installed", name, constraint))
			continue
		}
		v, err := parseSemver(have)
		if err != nil || !c.Check(v) {
			unmet = append(unmet, fmt.Sprintf("%s %s required, found %s", name, constraint, have))
		}
	}
	sort.Strings(unmet)
	return unmet
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
