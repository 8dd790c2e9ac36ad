package uiserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentx-labs/agentboard/internal/branding"
	"github.com/agentx-labs/agentboard/internal/config"
	"github.com/agentx-labs/agentboard/internal/runtime"
	"github.com/agentx-labs/agentboard/internal/userdata"
)

// Defaults used when neither flags, environment nor config.yaml set a value.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 19123
)

// Sources reported in ServerConfig.HostSource and PortSource.
const (
	SourceFlag    = "flag"
	SourceEnv     = "env"
	SourceConfig  = "config"
	SourceDefault = "default"
)

// ServerConfig is everything needed to start or stop the dashboard for one
// invocation. It is built by Resolve and not modified afterwards.
type ServerConfig struct {
	Host       string
	Port       int
	HostSource string
	PortSource string

	// EntryPoint is the server's script; NeedsShim marks TypeScript sources
	// that must run through the tsx loader.
	EntryPoint string
	NeedsShim  bool
	// WorkDir is the dashboard package root the child runs in.
	WorkDir string

	// Env is the complete child environment.
	Env []string
	// Overrides lists the KEY=VALUE pairs layered over the base environment,
	// in application order.
	Overrides []string

	StatePath string
}

// Addr returns host:port.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Candidate is one location where the dashboard entry point may exist.
type Candidate struct {
	Path      string
	NeedsShim bool
	WorkDir   string
}

// ResolveOptions carries the explicit arguments and the environment Resolve
// reads. Zero values fall back to the real process environment.
type ResolveOptions struct {
	// Port and Host come from flags; 0 and "" mean "not given".
	Port int
	Host string

	LookupEnv  func(key string) (string, bool)
	FileValue  func(key string) string
	BaseEnv    []string
	Executable string
	HomeDir    string
}

func (o *ResolveOptions) withDefaults() {
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.FileValue == nil {
		o.FileValue = config.FileValue
	}
	if o.BaseEnv == nil {
		o.BaseEnv = os.Environ()
	}
	if o.Executable == "" {
		if exe, err := os.Executable(); err == nil {
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}
			o.Executable = exe
		}
	}
	if o.HomeDir == "" {
		o.HomeDir = config.Dir()
	}
}

// Environment variables read by Resolve.
var (
	EnvPort     = branding.EnvVar("UI_PORT")
	EnvHost     = branding.EnvVar("UI_HOST")
	EnvEntry    = branding.EnvVar("UI_ENTRY")
	EnvPrebuilt = branding.EnvVar("UI_PREBUILT")
	EnvNoShim   = branding.EnvVar("UI_NO_SHIM")
	EnvHome     = branding.EnvVar("HOME")
	EnvTools    = branding.EnvVar("FORCE_TOOL_REGISTRATION")
)

// Resolve computes the effective ServerConfig. When no entry point exists it
// returns a *ConfigurationError listing every candidate tried.
func Resolve(opts ResolveOptions) (*ServerConfig, error) {
	opts.withDefaults()
	cfg := ResolveTarget(opts)

	cand, err := resolveEntry(opts)
	if err != nil {
		return nil, err
	}
	cfg.EntryPoint = cand.Path
	cfg.NeedsShim = cand.NeedsShim
	cfg.WorkDir = cand.WorkDir

	extra, err := userdata.LoadEnvFile(filepath.Join(opts.HomeDir, userdata.EnvDir, userdata.UIEnvFile))
	if err != nil {
		return nil, fmt.Errorf("loading dashboard environment: %w", err)
	}
	for _, e := range extra {
		cfg.Overrides = append(cfg.Overrides, e.Key+"="+e.Value)
	}
	port := strconv.Itoa(cfg.Port)
	cfg.Overrides = append(cfg.Overrides,
		"NODE_ENV=production",
		EnvTools+"=1",
		"HOST="+cfg.Host,
		"PORT="+port,
		EnvHost+"="+cfg.Host,
		EnvPort+"="+port,
		EnvHome+"="+opts.HomeDir,
	)

	env := append([]string(nil), opts.BaseEnv...)
	for _, kv := range cfg.Overrides {
		k, v, _ := strings.Cut(kv, "=")
		env = runtime.SetEnv(env, k, v)
	}
	cfg.Env = env
	return cfg, nil
}

// ResolveTarget computes only the host, port and state path. Commands that
// act on a tracked server without launching one use it, so they keep working
// when no entry point is installed.
func ResolveTarget(opts ResolveOptions) *ServerConfig {
	opts.withDefaults()
	cfg := &ServerConfig{}
	cfg.Port, cfg.PortSource = resolvePort(opts)
	cfg.Host, cfg.HostSource = resolveHost(opts)
	cfg.StatePath = StatePath(filepath.Join(opts.HomeDir, userdata.RunDir), cfg.Port)
	return cfg
}

func resolvePort(opts ResolveOptions) (int, string) {
	if validPort(opts.Port) {
		return opts.Port, SourceFlag
	}
	if v, ok := opts.LookupEnv(EnvPort); ok {
		if p, ok := ParsePort(v); ok {
			return p, SourceEnv
		}
	}
	if p, ok := ParsePort(opts.FileValue(config.KeyUIPort)); ok {
		return p, SourceConfig
	}
	return DefaultPort, SourceDefault
}

func resolveHost(opts ResolveOptions) (string, string) {
	if h := strings.TrimSpace(opts.Host); h != "" {
		return h, SourceFlag
	}
	if v, ok := opts.LookupEnv(EnvHost); ok {
		if h := strings.TrimSpace(v); h != "" {
			return h, SourceEnv
		}
	}
	if h := strings.TrimSpace(opts.FileValue(config.KeyUIHost)); h != "" {
		return h, SourceConfig
	}
	return DefaultHost, SourceDefault
}

// ParsePort parses a decimal port in [1, 65535].
func ParsePort(s string) (int, bool) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !validPort(p) {
		return 0, false
	}
	return p, true
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// Candidates returns the ordered entry-point locations for an install rooted
// next to executable and a base directory at homeDir.
func Candidates(executable, homeDir string) []Candidate {
	var roots []string
	if executable != "" {
		roots = append(roots, filepath.Join(filepath.Dir(filepath.Dir(executable)), userdata.UIDir))
	}
	home := filepath.Join(homeDir, userdata.UIDir)
	if len(roots) == 0 || roots[0] != home {
		roots = append(roots, home)
	}

	var out []Candidate
	for _, root := range roots {
		out = append(out,
			Candidate{Path: filepath.Join(root, "server", "index.ts"), NeedsShim: true, WorkDir: root},
			Candidate{Path: filepath.Join(root, "dist", "server.mjs"), WorkDir: root},
		)
	}
	return out
}

func resolveEntry(opts ResolveOptions) (Candidate, error) {
	if v, ok := opts.LookupEnv(EnvEntry); ok && strings.TrimSpace(v) != "" {
		path := config.ExpandHome(strings.TrimSpace(v))
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if !fileExists(path) {
			return Candidate{}, &ConfigurationError{Candidates: []string{path}, Override: true}
		}
		return Candidate{Path: path, NeedsShim: runtime.NeedsShim(path), WorkDir: filepath.Dir(path)}, nil
	}

	prebuilt := truthy(opts.LookupEnv, EnvPrebuilt) || truthy(opts.LookupEnv, EnvNoShim)

	var tried []string
	for _, c := range Candidates(opts.Executable, opts.HomeDir) {
		if prebuilt && c.NeedsShim {
			continue
		}
		tried = append(tried, c.Path)
		if fileExists(c.Path) {
			return c, nil
		}
	}
	return Candidate{}, &ConfigurationError{Candidates: tried}
}

func truthy(lookup func(string) (string, bool), key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
