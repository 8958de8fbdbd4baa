// Package config manages user-level settings stored at ~/.labext/config.yaml
// and resolves, once per process, the settings every command runs with: the
// application directory, the extension source directories, and the build
// command.
package config
