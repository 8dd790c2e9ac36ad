package uiserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentx-labs/agentboard/internal/platform"
)

// Default stop budgets.
const (
	DefaultSoftTimeout  = 5 * time.Second
	DefaultForceTimeout = 2 * time.Second
	DefaultPollInterval = 125 * time.Millisecond
)

// Notes reported in StopResult.Note.
const (
	NoteNothingTracked = "nothing tracked"
	NoteStaleCleared   = "stale state cleared"
	NoteStaleFresh     = "stale state cleared, starting fresh"
	NoteStopped        = "stopped"
	NoteForced         = "stopped after forced termination"
)

// ProcessTable is the view of the operating system the Terminator needs.
type ProcessTable interface {
	Probe(pid int) platform.Liveness
	Terminate(pid int) error
	Kill(pid int) error
}

type osProcesses struct{}

func (osProcesses) Probe(pid int) platform.Liveness { return platform.Probe(pid) }

func (osProcesses) Terminate(pid int) error { return platform.Terminate(pid) }

func (osProcesses) Kill(pid int) error { return platform.Kill(pid) }

// OSProcesses returns the ProcessTable backed by the running system.
func OSProcesses() ProcessTable { return osProcesses{} }

// StopResult describes a stop that did not fail.
type StopResult struct {
	// Stopped is true when a live process was terminated.
	Stopped bool
	// Forced is true when the forced signal was needed.
	Forced bool
	PID    int
	Note   string
}

// Terminator stops a tracked dashboard server.
type Terminator struct {
	SoftTimeout  time.Duration
	ForceTimeout time.Duration
	PollInterval time.Duration

	Procs ProcessTable
	// SelfPID is the caller's pid; a record naming it is never signalled.
	SelfPID int
	// Warn receives non-fatal diagnostics; defaults to os.Stderr.
	Warn io.Writer
}

// NewTerminator returns a Terminator with the default budgets.
func NewTerminator() *Terminator {
	return &Terminator{
		SoftTimeout:  DefaultSoftTimeout,
		ForceTimeout: DefaultForceTimeout,
		PollInterval: DefaultPollInterval,
		Procs:        OSProcesses(),
		SelfPID:      os.Getpid(),
	}
}

func (t *Terminator) warnf(format string, args ...any) {
	w := t.Warn
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// Stop stops the server tracked for cfg.Port.
//
// A missing record or one naming a dead process is not an error; the result
// says so in Note. Errors are ErrRefuseSelf, *SignalError or
// *StopTimeoutError. A record is only cleared while it still names the pid
// that was acted upon.
func (t *Terminator) Stop(ctx context.Context, cfg *ServerConfig) (StopResult, error) {
	procs := t.Procs
	if procs == nil {
		procs = OSProcesses()
	}
	store := storeFor(cfg)

	st, err := store.Read(cfg.Port)
	if err != nil {
		t.warnf("%v", err)
		return StopResult{Note: NoteNothingTracked}, nil
	}
	if st == nil {
		return StopResult{Note: NoteNothingTracked}, nil
	}

	pid := st.PID
	if !platform.ValidPID(pid) {
		t.clear(store, cfg.Port, pid)
		return StopResult{Note: NoteStaleCleared}, nil
	}
	if pid == t.SelfPID {
		return StopResult{PID: pid}, fmt.Errorf("state for port %d names pid %d: %w", cfg.Port, pid, ErrRefuseSelf)
	}
	if !procs.Probe(pid).IsAlive() {
		t.clear(store, cfg.Port, pid)
		return StopResult{PID: pid, Note: NoteStaleFresh}, nil
	}

	if err := procs.Terminate(pid); err != nil && !errors.Is(err, platform.ErrProcessGone) {
		return StopResult{PID: pid}, &SignalError{PID: pid, Signal: platform.GracefulSignalName(), Err: err}
	}
	if t.waitExit(ctx, procs, pid, t.SoftTimeout) {
		t.clear(store, cfg.Port, pid)
		return StopResult{Stopped: true, PID: pid, Note: NoteStopped}, nil
	}

	if err := procs.Kill(pid); err != nil && !errors.Is(err, platform.ErrProcessGone) {
		return StopResult{PID: pid}, &SignalError{PID: pid, Signal: platform.ForcedSignalName(), Escalated: true, Err: err}
	}
	if t.waitExit(ctx, procs, pid, t.ForceTimeout) {
		t.clear(store, cfg.Port, pid)
		return StopResult{Stopped: true, Forced: true, PID: pid, Note: NoteForced}, nil
	}

	return StopResult{PID: pid}, &StopTimeoutError{PID: pid, Waited: t.SoftTimeout + t.ForceTimeout}
}

func (t *Terminator) clear(store *StateStore, port, pid int) {
	if err := store.ClearIf(port, pid); err != nil {
		t.warnf("%v", err)
	}
}

// waitExit polls pid until it is dead or budget runs out. A cancelled
// context ends the wait like an exhausted budget.
func (t *Terminator) waitExit(ctx context.Context, procs ProcessTable, pid int, budget time.Duration) bool {
	if !procs.Probe(pid).IsAlive() {
		return true
	}
	interval := t.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.NewTimer(budget)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !procs.Probe(pid).IsAlive() {
				return true
			}
		case <-deadline.C:
			return !procs.Probe(pid).IsAlive()
		case <-ctx.Done():
			return !procs.Probe(pid).IsAlive()
		}
	}
}
