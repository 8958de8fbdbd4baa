// Package cli defines the Cobra command tree for the labext CLI. Each file in
// this package builds one top-level command (install, link, list, etc.).
// Command implementations only handle flag parsing and I/O; sequencing lives
// in the dispatch package and extension state in the extension package.
package cli
