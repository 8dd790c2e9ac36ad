// Package platform hides operating-system differences behind small functions:
// permission bits, child process attributes, and signalling processes by pid.
//
// Process signalling is modelled as two abstract operations. Terminate asks a
// process to shut down (SIGTERM on Unix, a console break or taskkill on
// Windows) and Kill forces it (SIGKILL / TerminateProcess). Probe reports
// liveness as a tri-state so callers can treat "exists but not ours" as alive.
package platform
