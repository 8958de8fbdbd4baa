// Package extension is a filesystem-backed extension manager for an
// application directory. It installs copies of extensions, records linked
// source packages, keeps the enabled/disabled registry in app.yaml, and
// assembles the staging tree and build output.
package extension
