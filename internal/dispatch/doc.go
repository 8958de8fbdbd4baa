// Package dispatch maps a subcommand to calls against an extension Manager,
// sequences them in argument order, triggers the post-action build, and rolls
// back install/link when that build fails. It owns no extension state.
package dispatch
