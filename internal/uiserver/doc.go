// Package uiserver supervises the local dashboard server across separate CLI
// invocations.
//
// Resolve turns flags, environment and config.yaml into a ServerConfig.
// A Launcher runs the server in the foreground and records its pid in a
// per-port state file; a Terminator reads that file from a later invocation
// and stops the process, first gracefully and then by force. The state file
// is only a claim: every reader verifies liveness before acting on it and
// clears records that point at dead processes.
package uiserver
