package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentboard/internal/config"
	"github.com/agentx-labs/agentboard/internal/platform"
)

// Directory and file name constants for the base directory layout.
const (
	RunDir    = "run"
	EnvDir    = "env"
	UIDir     = "ui"
	UIEnvFile = "ui.env"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// GetRoot returns the base directory (AGENTBOARD_HOME or ~/.agentboard).
func GetRoot() string {
	return config.Dir()
}

// GetRunDir returns the directory holding per-port server state files.
func GetRunDir() string {
	return filepath.Join(GetRoot(), RunDir)
}

// GetEnvDir returns the path to the env/ directory.
func GetEnvDir() string {
	return filepath.Join(GetRoot(), EnvDir)
}

// GetUIEnvPath returns the path to the optional env file merged into the
// dashboard server's environment.
func GetUIEnvPath() string {
	return filepath.Join(GetEnvDir(), UIEnvFile)
}

// GetUIDir returns the path to a user-local dashboard install.
func GetUIDir() string {
	return filepath.Join(GetRoot(), UIDir)
}

// EnsureRunDir creates the run/ directory with owner-only permissions.
func EnsureRunDir() (string, error) {
	dir := GetRunDir()
	if err := platform.EnsureDir(dir, DirPermSecure); err != nil {
		return "", fmt.Errorf("preparing run directory: %w", err)
	}
	return dir, nil
}
