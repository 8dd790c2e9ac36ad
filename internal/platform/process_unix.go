//go:build unix

package platform

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	gracefulName = "SIGTERM"
	forcedName   = "SIGKILL"
)

func probe(pid int) Liveness {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return Alive
	case errors.Is(err, unix.EPERM):
		return AliveUnauthorized
	default:
		return Dead
	}
}

func terminate(pid int) error {
	return send(pid, unix.SIGTERM)
}

func kill(pid int) error {
	return send(pid, unix.SIGKILL)
}

func send(pid int, sig syscall.Signal) error {
	if err := unix.Kill(pid, sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return fmt.Errorf("sending %s to %d: %w", unix.SignalName(sig), pid, ErrProcessGone)
		}
		return fmt.Errorf("sending %s to %d: %w", unix.SignalName(sig), pid, err)
	}
	return nil
}

func forward(p *os.Process, sig os.Signal) error {
	return p.Signal(sig)
}
