package uiserver

import (
	"context"
	"fmt"

	"github.com/agentx-labs/agentboard/internal/platform"
)

// Supervisor is the command surface the CLI calls into: one-shot start, stop
// and restart of the dashboard, plus a status query over all tracked ports.
type Supervisor struct {
	Launcher   *Launcher
	Terminator *Terminator
}

// NewSupervisor returns a Supervisor with default launcher and terminator.
func NewSupervisor() *Supervisor {
	return &Supervisor{
		Launcher:   NewLauncher(),
		Terminator: NewTerminator(),
	}
}

// Start runs the dashboard in the foreground until it exits.
func (s *Supervisor) Start(ctx context.Context, cfg *ServerConfig) (int, error) {
	return s.Launcher.Start(ctx, cfg, CommandStart)
}

// Stop stops the dashboard tracked for cfg.Port.
func (s *Supervisor) Stop(ctx context.Context, cfg *ServerConfig) (StopResult, error) {
	return s.Terminator.Stop(ctx, cfg)
}

// Restart stops whatever is tracked for cfg.Port and then starts a fresh
// server in the foreground. The start is skipped when the stop fails.
// onStopped, when non-nil, is called between the two phases.
func (s *Supervisor) Restart(ctx context.Context, cfg *ServerConfig, onStopped func(StopResult)) (int, error) {
	res, err := s.Terminator.Stop(ctx, cfg)
	if err != nil {
		return 1, fmt.Errorf("stopping previous dashboard: %w", err)
	}
	if onStopped != nil {
		onStopped(res)
	}
	return s.Launcher.Start(ctx, cfg, CommandRestart)
}

// Liveness values reported by Status.
const (
	StatusRunning = "running"
	StatusStale   = "stale"
	StatusInvalid = "invalid"
)

// TrackedServer is one row of Status.
type TrackedServer struct {
	Port   int
	Status string
	State  *ServerState
	Issues []string
}

// Status lists every record in the store under dir. Records that point at
// dead processes are cleared as a side effect and reported as stale.
func (s *Supervisor) Status(dir string) ([]TrackedServer, error) {
	procs := s.Terminator.Procs
	if procs == nil {
		procs = OSProcesses()
	}
	store := NewStateStore(dir)
	entries, err := store.List()
	if err != nil {
		return nil, err
	}

	out := make([]TrackedServer, 0, len(entries))
	for _, e := range entries {
		row := TrackedServer{Port: e.Port, State: e.State, Issues: e.Invalid}
		switch {
		case e.State == nil:
			row.Status = StatusInvalid
		case platform.ValidPID(e.State.PID) && procs.Probe(e.State.PID).IsAlive():
			row.Status = StatusRunning
		default:
			row.Status = StatusStale
			if err := store.ClearIf(e.Port, e.State.PID); err != nil {
				s.Terminator.warnf("%v", err)
			}
		}
		out = append(out, row)
	}
	return out, nil
}
