package uiserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentx-labs/agentboard/internal/platform"
	"github.com/agentx-labs/agentboard/internal/runtime"
)

// Launcher runs the dashboard server in the foreground and tracks it in the
// state store while it runs.
type Launcher struct {
	// Stdin is handed to the child when set. It defaults to the null device:
	// the child runs in its own process group, so reading the terminal would
	// stop it with SIGTTIN.
	Stdin io.Reader
	// Stdout and Stderr default to the CLI's own streams.
	Stdout io.Writer
	Stderr io.Writer
	// Warn receives non-fatal diagnostics; defaults to os.Stderr.
	Warn io.Writer

	// NewCommand builds the child command. The default runs the entry point
	// with the node binary found by runtime.FindNode.
	NewCommand func(cfg *ServerConfig) (*exec.Cmd, error)
	// Now stamps ServerState.StartedAt.
	Now func() time.Time
	// ForwardSignals relays SIGINT/SIGTERM received by the CLI to the child.
	ForwardSignals bool
}

// NewLauncher returns a Launcher wired to the process's standard streams.
func NewLauncher() *Launcher {
	return &Launcher{ForwardSignals: true}
}

func (l *Launcher) warnf(format string, args ...any) {
	w := l.Warn
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

func defaultCommand(cfg *ServerConfig) (*exec.Cmd, error) {
	node, err := runtime.FindNode()
	if err != nil {
		return nil, err
	}
	return node.Command(cfg.EntryPoint, cfg.NeedsShim), nil
}

// Start spawns the server described by cfg and blocks until it exits.
// command ("start" or "restart") is recorded in the state file.
//
// The returned code is 0 on success. Spawn failures return 1 with a
// *SpawnError; unsuccessful exits return the child's code (1 when it was
// killed by a signal) with an *ExitError. State-file problems are reported
// through Warn and never change the result.
func (l *Launcher) Start(ctx context.Context, cfg *ServerConfig, command string) (int, error) {
	newCommand := l.NewCommand
	if newCommand == nil {
		newCommand = defaultCommand
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}

	cmd, err := newCommand(cfg)
	if err != nil {
		return 1, &SpawnError{Path: cfg.EntryPoint, Err: err}
	}
	cmd.Env = cfg.Env
	if cmd.Dir == "" {
		cmd.Dir = cfg.WorkDir
	}
	cmd.Stdin = l.Stdin
	cmd.Stdout = orWriter(l.Stdout, os.Stdout)
	cmd.Stderr = orWriter(l.Stderr, os.Stderr)
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = platform.ChildProcAttr()
	}

	var sigCh chan os.Signal
	if l.ForwardSignals {
		// Registered before Start so an early Ctrl-C is not lost.
		sigCh = make(chan os.Signal, 2)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	if err := cmd.Start(); err != nil {
		return 1, &SpawnError{Path: cmd.Path, Err: err}
	}

	var waitErr error
	exited := make(chan struct{})
	go func() {
		waitErr = cmd.Wait()
		close(exited)
	}()

	hasExited := func() bool {
		select {
		case <-exited:
			return true
		default:
			return false
		}
	}

	store := storeFor(cfg)
	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}
	if pid <= 0 {
		l.warnf("no process id for the dashboard; restart tracking is disabled for this run")
	} else {
		l.track(store, cfg, pid, command, now(), hasExited)
	}

	for done := false; !done; {
		select {
		case <-exited:
			done = true
		case sig := <-sigCh:
			if err := platform.Forward(cmd.Process, sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				l.warnf("forwarding %s to dashboard (pid %d): %v", sig, pid, err)
			}
		case <-ctx.Done():
			if err := platform.Terminate(pid); err != nil && !errors.Is(err, platform.ErrProcessGone) {
				l.warnf("stopping dashboard (pid %d): %v", pid, err)
			}
			ctx = context.Background()
		}
	}

	if pid > 0 {
		if err := store.ClearIf(cfg.Port, pid); err != nil {
			l.warnf("%v", err)
		}
	}
	return exitResult(waitErr)
}

// track records pid in the state store. A child that is already gone is
// never left behind as a record.
func (l *Launcher) track(store *StateStore, cfg *ServerConfig, pid int, command string, startedAt time.Time, hasExited func() bool) {
	if hasExited() {
		return
	}
	st := ServerState{
		PID:       pid,
		Host:      cfg.Host,
		Port:      cfg.Port,
		Command:   command,
		StartedAt: startedAt.UTC(),
	}
	if err := store.Write(st); err != nil {
		l.warnf("%v (restart tracking is disabled for this run)", err)
		return
	}
	if hasExited() {
		if err := store.ClearIf(cfg.Port, pid); err != nil {
			l.warnf("%v", err)
		}
	}
}

func exitResult(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if sig := signalName(exitErr.ProcessState); sig != "" {
			return 1, &ExitError{Code: 1, Signal: sig}
		}
		code := exitErr.ExitCode()
		if code <= 0 {
			code = 1
		}
		return code, &ExitError{Code: code}
	}
	return 1, fmt.Errorf("waiting for dashboard: %w", waitErr)
}

func signalName(ps *os.ProcessState) string {
	if ps == nil {
		return ""
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return fmt.Sprintf("signal %d (%s)", int(ws.Signal()), ws.Signal())
	}
	return ""
}

func orWriter(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
