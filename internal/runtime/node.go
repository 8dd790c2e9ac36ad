package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/agentboard/internal/branding"
)

// MinNodeVersion is the oldest Node.js release the dashboard supports.
const MinNodeVersion = "18.0.0"

// ShimLoader is the module passed to node's --import flag for TypeScript
// entry points.
const ShimLoader = "tsx"

// NodeRuntime executes dashboard entry points with a Node.js binary.
type NodeRuntime struct {
	Bin string
}

// FindNode locates the node binary. AGENTBOARD_NODE overrides the PATH lookup.
func FindNode() (*NodeRuntime, error) {
	if v := os.Getenv(branding.EnvVar("NODE")); v != "" {
		if _, err := os.Stat(v); err != nil {
			return nil, fmt.Errorf("%s points to %s: %w", branding.EnvVar("NODE"), v, err)
		}
		return &NodeRuntime{Bin: v}, nil
	}
	bin, err := exec.LookPath("node")
	if err != nil {
		return nil, fmt.Errorf("dashboard requires Node.js: %w", err)
	}
	return &NodeRuntime{Bin: bin}, nil
}

// Args returns node's arguments for running entryPoint, with the tsx loader
// in front when needsShim is set.
func (n *NodeRuntime) Args(entryPoint string, needsShim bool) []string {
	if needsShim {
		return []string{"--import", ShimLoader, entryPoint}
	}
	return []string{entryPoint}
}

// Command builds the child command for entryPoint. Stdio, environment and
// process attributes are left to the caller.
func (n *NodeRuntime) Command(entryPoint string, needsShim bool) *exec.Cmd {
	return exec.Command(n.Bin, n.Args(entryPoint, needsShim)...)
}

// Version runs `node --version` and parses the result.
func (n *NodeRuntime) Version(ctx context.Context) (*semver.Version, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, n.Bin, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s --version: %w", n.Bin, err)
	}
	return ParseVersion(out.String())
}

// ParseVersion parses node's "v20.11.1\n" style version output.
func ParseVersion(output string) (*semver.Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(output), "v")
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing node version %q: %w", strings.TrimSpace(output), err)
	}
	return v, nil
}

// CheckVersion reports an error when v is older than minimum.
func CheckVersion(v *semver.Version, minimum string) error {
	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return fmt.Errorf("parsing minimum version %q: %w", minimum, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("node %s is older than the required %s", v, minimum)
	}
	return nil
}

// HasShim reports whether the tsx loader is installed for a dashboard rooted
// at workDir, searching node_modules in workDir and its parents.
func HasShim(workDir string) bool {
	dir := workDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "node_modules", ShimLoader, "package.json")); err == nil {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

// NeedsShim reports whether an entry point is TypeScript source.
func NeedsShim(entryPoint string) bool {
	switch strings.ToLower(filepath.Ext(entryPoint)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return true
	default:
		return false
	}
}
