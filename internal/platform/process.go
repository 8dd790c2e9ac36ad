package platform

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// Liveness is the outcome of a liveness probe.
type Liveness int

const (
	// Dead means no process with the pid exists (or it could not be confirmed).
	Dead Liveness = iota
	// Alive means the process exists and we may signal it.
	Alive
	// AliveUnauthorized means the process exists but belongs to someone else.
	AliveUnauthorized
)

// String returns a human-readable name for the liveness state.
func (l Liveness) String() string {
	switch l {
	case Alive:
		return "alive"
	case AliveUnauthorized:
		return "alive (unauthorized)"
	default:
		return "dead"
	}
}

// IsAlive reports whether the state should be treated as a running process.
// Unauthorized counts as alive: death cannot be confirmed.
func (l Liveness) IsAlive() bool {
	return l == Alive || l == AliveUnauthorized
}

// ErrProcessGone is returned (wrapped) when a signal targets a pid that no
// longer exists.
var ErrProcessGone = errors.New("process already gone")

// ErrInvalidPID is returned (wrapped) for pids that cannot name a single
// process. The kernel truncates pids to 32 bits, so out-of-range values would
// otherwise address process groups or every process.
var ErrInvalidPID = errors.New("invalid process id")

// ValidPID reports whether pid names exactly one process: 1..MaxInt32.
func ValidPID(pid int) bool {
	return pid >= 1 && int64(pid) <= math.MaxInt32
}

// Probe performs a zero-effect liveness check on pid. Invalid pids are Dead.
func Probe(pid int) Liveness {
	if !ValidPID(pid) {
		return Dead
	}
	return probe(pid)
}

// Terminate sends the graceful-terminate request to pid.
func Terminate(pid int) error {
	if !ValidPID(pid) {
		return fmt.Errorf("terminating %d: %w", pid, ErrInvalidPID)
	}
	return terminate(pid)
}

// Kill sends the forced-terminate request to pid.
func Kill(pid int) error {
	if !ValidPID(pid) {
		return fmt.Errorf("killing %d: %w", pid, ErrInvalidPID)
	}
	return kill(pid)
}

// Forward relays a signal received by this process to a child process.
func Forward(p *os.Process, sig os.Signal) error {
	return forward(p, sig)
}

// GracefulSignalName and ForcedSignalName name the platform's stop mechanisms
// for user-facing messages.
func GracefulSignalName() string { return gracefulName }

// ForcedSignalName names the forced stop mechanism.
func ForcedSignalName() string { return forcedName }
