// Package manifest parses and validates extension.yaml, the manifest every
// extension directory carries. Manifests are checked against an embedded JSON
// Schema and their versions and requirement constraints are parsed as semver.
package manifest
