// Package cli defines the Cobra command tree for the agentboard CLI. Each file
// in this package registers one top-level command (start, stop, status, etc.)
// with the root command. Command implementations delegate to internal/uiserver
// for the dashboard lifecycle and only handle flag parsing, I/O formatting,
// and error reporting.
package cli
