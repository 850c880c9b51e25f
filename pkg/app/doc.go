// Package app assembles fsh from its configuration so the CLI subcommands and
// the interactive shell share one wiring.
package app
