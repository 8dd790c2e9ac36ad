// Package userdata describes the layout of the ~/.agentboard/ base directory:
// the run/ directory holding per-port server state, the env/ directory with
// .env files merged into the dashboard's environment, and a user-local ui/
// install location. It also parses .env files and redacts secret values for
// display.
package userdata
