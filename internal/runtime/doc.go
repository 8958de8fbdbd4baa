// Package runtime runs external commands on behalf of the build step and
// captures their output.
package runtime
