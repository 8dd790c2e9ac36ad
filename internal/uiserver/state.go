package uiserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentx-labs/agentboard/internal/platform"
	"github.com/gofrs/flock"
)

// Commands recorded in ServerState.Command.
const (
	CommandStart   = "start"
	CommandRestart = "restart"
)

const (
	statePrefix = "ui-"
	stateSuffix = ".json"
	lockSuffix  = ".lock"

	stateDirPerm  os.FileMode = 0700
	stateFilePerm os.FileMode = 0600
)

// ServerState is the persisted claim that a dashboard server is running on
// a port. Its existence does not prove the process is alive.
type ServerState struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"startedAt"`
}

// StateStore reads and writes one JSON record per port under Dir.
// Mutations are atomic (temp file plus rename) and serialised between
// invocations by an advisory lock file next to the record.
type StateStore struct {
	Dir string
}

// NewStateStore returns a store rooted at dir.
func NewStateStore(dir string) *StateStore {
	return &StateStore{Dir: dir}
}

// StatePath returns the record path for port under dir.
func StatePath(dir string, port int) string {
	return filepath.Join(dir, statePrefix+strconv.Itoa(port)+stateSuffix)
}

// storeFor returns the store that owns cfg.StatePath.
func storeFor(cfg *ServerConfig) *StateStore {
	return NewStateStore(filepath.Dir(cfg.StatePath))
}

// Path returns the record path for port.
func (s *StateStore) Path(port int) string {
	return StatePath(s.Dir, port)
}

// Read returns the record for port. A missing, malformed or wrongly typed
// record yields (nil, nil). Only I/O failures are returned as errors.
func (s *StateStore) Read(port int) (*ServerState, error) {
	st, err := s.inspect(s.Path(port))
	var invalid *InvalidStateError
	if errors.As(err, &invalid) {
		return nil, nil
	}
	return st, err
}

func (s *StateStore) inspect(path string) (*ServerState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StateIOError{Op: "reading", Path: path, Err: err}
	}
	if err := validateRecord(data); err != nil {
		return nil, err
	}
	var st ServerState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &InvalidStateError{Issues: []string{err.Error()}}
	}
	return &st, nil
}

// Write persists st for st.Port, replacing any previous record.
func (s *StateStore) Write(st ServerState) error {
	path := s.Path(st.Port)
	if err := platform.EnsureDir(s.Dir, stateDirPerm); err != nil {
		return &StateIOError{Op: "writing", Path: path, Err: err}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return &StateIOError{Op: "encoding", Path: path, Err: err}
	}
	return s.withLock(st.Port, "writing", func() error {
		return writeAtomic(path, append(data, '\n'))
	})
}

// ClearIf removes the record for port only while it still names pid. A
// record that another invocation replaced in the meantime is left alone.
// Unreadable or malformed records are treated as not matching.
func (s *StateStore) ClearIf(port, pid int) error {
	path := s.Path(port)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return s.withLock(port, "clearing", func() error {
		st, err := s.Read(port)
		if err != nil {
			return err
		}
		if st == nil || st.PID != pid {
			return nil
		}
		return removeIfExists(path)
	})
}

// Entry is one record found by List.
type Entry struct {
	Port  int
	Path  string
	State *ServerState
	// Invalid holds validation issues for records Read would ignore.
	Invalid []string
}

// List returns every record in the store ordered by port.
func (s *StateStore) List() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, statePrefix+"*"+stateSuffix))
	if err != nil {
		return nil, &StateIOError{Op: "listing", Path: s.Dir, Err: err}
	}

	var entries []Entry
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), statePrefix), stateSuffix)
		port, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		e := Entry{Port: port, Path: m}
		st, err := s.inspect(m)
		var invalid *InvalidStateError
		switch {
		case errors.As(err, &invalid):
			e.Invalid = invalid.Issues
		case err != nil:
			return nil, err
		case st == nil:
			continue
		default:
			e.State = st
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Port < entries[j].Port })
	return entries, nil
}

func (s *StateStore) withLock(port int, op string, fn func() error) error {
	lockPath := strings.TrimSuffix(s.Path(port), stateSuffix) + lockSuffix
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return &StateIOError{Op: "locking", Path: lockPath, Err: err}
	}
	defer fl.Unlock()

	if err := fn(); err != nil {
		var ioErr *StateIOError
		if errors.As(err, &ioErr) {
			return err
		}
		return &StateIOError{Op: op, Path: s.Path(port), Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := platform.Chmod(tmpName, stateFilePerm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
