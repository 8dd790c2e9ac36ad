//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	gracefulName = "CTRL_BREAK"
	forcedName   = "TerminateProcess"

	stillActive = 259
)

func probe(pid int) Liveness {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return AliveUnauthorized
		}
		return Dead
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return AliveUnauthorized
	}
	if code == stillActive {
		return Alive
	}
	return Dead
}

// terminate asks the process group rooted at pid to break; children started
// by ChildProcAttr lead their own group. Processes outside a shared console
// fall back to a non-forced taskkill.
func terminate(pid int) error {
	if probe(pid) == Dead {
		return fmt.Errorf("terminating %d: %w", pid, ErrProcessGone)
	}
	if err := windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(pid)); err == nil {
		return nil
	}
	out, err := exec.Command("taskkill", "/PID", strconv.Itoa(pid)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("taskkill /PID %d: %w (%s)", pid, err, out)
	}
	return nil
}

func kill(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return fmt.Errorf("terminating %d: %w", pid, ErrProcessGone)
		}
		return fmt.Errorf("opening process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("terminating %d: %w", pid, err)
	}
	return nil
}

// forward cannot deliver arbitrary signals on Windows; any interrupt becomes
// a graceful terminate request.
func forward(p *os.Process, _ os.Signal) error {
	return terminate(p.Pid)
}

// ChildProcAttr starts the child in a new process group so it can be sent a
// console break independently of the CLI.
func ChildProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}
