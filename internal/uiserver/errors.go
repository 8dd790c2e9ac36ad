package uiserver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRefuseSelf is returned when a state record names the calling process.
var ErrRefuseSelf = errors.New("refusing to stop self")

// ConfigurationError reports that no dashboard entry point exists.
type ConfigurationError struct {
	// Candidates lists every path that was checked, in order.
	Candidates []string
	// Override is set when the entry point came from AGENTBOARD_UI_ENTRY.
	Override bool
}

func (e *ConfigurationError) Error() string {
	if e.Override && len(e.Candidates) == 1 {
		return fmt.Sprintf("dashboard entry point %s does not exist", e.Candidates[0])
	}
	return fmt.Sprintf("no dashboard entry point found (tried %s)", strings.Join(e.Candidates, ", "))
}

// SpawnError reports that the OS could not create the server process.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("starting dashboard: %v", e.Err)
	}
	return fmt.Sprintf("starting dashboard (%s): %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports that the server process ended unsuccessfully.
type ExitError struct {
	Code   int
	Signal string
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("dashboard terminated by %s", e.Signal)
	}
	return fmt.Sprintf("dashboard exited with code %d", e.Code)
}

// SignalError reports that a stop signal could not be delivered.
type SignalError struct {
	PID    int
	Signal string
	// Escalated is set when the forced signal failed after the graceful one
	// was sent but did not take effect.
	Escalated bool
	Err       error
}

func (e *SignalError) Error() string {
	if e.Escalated {
		return fmt.Sprintf("process %d: neither graceful nor forced termination worked (%s: %v)", e.PID, e.Signal, e.Err)
	}
	return fmt.Sprintf("process %d: sending %s: %v", e.PID, e.Signal, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }

// StopTimeoutError reports a process that survived both stop phases.
type StopTimeoutError struct {
	PID    int
	Waited time.Duration
}

func (e *StopTimeoutError) Error() string {
	return fmt.Sprintf("process %d did not stop within %s; stop it manually", e.PID, e.Waited)
}

// StateIOError reports a failure reading, writing or clearing a state file.
// Callers downgrade it to a warning.
type StateIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *StateIOError) Error() string {
	return fmt.Sprintf("%s state file %s: %v", e.Op, e.Path, e.Err)
}

func (e *StateIOError) Unwrap() error { return e.Err }
