package uiserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/agentboard/internal/runtime"
)

// layout is a fake install: <root>/install/bin/agentboard plus a base
// directory at <root>/home.
type layout struct {
	exe     string
	install string
	home    string
}

func newLayout(t *testing.T) layout {
	t.Helper()
	root := t.TempDir()
	l := layout{
		exe:     filepath.Join(root, "install", "bin", "agentboard"),
		install: filepath.Join(root, "install"),
		home:    filepath.Join(root, "home"),
	}
	for _, dir := range []string{filepath.Dir(l.exe), l.home} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// entry\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func (l layout) opts(env map[string]string, file map[string]string) ResolveOptions {
	return ResolveOptions{
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		FileValue:  func(k string) string { return file[k] },
		BaseEnv:    []string{"PATH=/usr/bin", "PORT=1", "NODE_ENV=development"},
		Executable: l.exe,
		HomeDir:    l.home,
	}
}

func TestResolve_Defaults(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))

	cfg, err := Resolve(l.opts(nil, nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Host != DefaultHost || cfg.Port != DefaultPort {
		t.Errorf("Addr = %s, want %s:%d", cfg.Addr(), DefaultHost, DefaultPort)
	}
	if cfg.HostSource != SourceDefault || cfg.PortSource != SourceDefault {
		t.Errorf("sources = %s/%s, want default/default", cfg.HostSource, cfg.PortSource)
	}
	if want := filepath.Join(l.home, "run", "ui-19123.json"); cfg.StatePath != want {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath, want)
	}
}

func TestResolve_ExplicitPortKeepsDefaultHost(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))

	opts := l.opts(nil, nil)
	opts.Port = 19123
	cfg, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		flagPort   int
		flagHost   string
		env        map[string]string
		file       map[string]string
		wantPort   int
		wantHost   string
		wantSource string
	}{
		{
			name:       "flag beats env and config",
			flagPort:   4000,
			flagHost:   "0.0.0.0",
			env:        map[string]string{EnvPort: "5000", EnvHost: "10.0.0.1"},
			file:       map[string]string{"ui.port": "6000", "ui.host": "10.0.0.2"},
			wantPort:   4000,
			wantHost:   "0.0.0.0",
			wantSource: SourceFlag,
		},
		{
			name:       "env beats config",
			env:        map[string]string{EnvPort: "5000", EnvHost: "10.0.0.1"},
			file:       map[string]string{"ui.port": "6000", "ui.host": "10.0.0.2"},
			wantPort:   5000,
			wantHost:   "10.0.0.1",
			wantSource: SourceEnv,
		},
		{
			name:       "config beats default",
			file:       map[string]string{"ui.port": "6000", "ui.host": "10.0.0.2"},
			wantPort:   6000,
			wantHost:   "10.0.0.2",
			wantSource: SourceConfig,
		},
		{
			name:       "invalid env port falls through to config",
			env:        map[string]string{EnvPort: "not-a-port"},
			file:       map[string]string{"ui.port": "6000"},
			wantPort:   6000,
			wantHost:   DefaultHost,
			wantSource: SourceConfig,
		},
		{
			name:       "out of range flag falls through to env",
			flagPort:   70000,
			env:        map[string]string{EnvPort: "5000"},
			wantPort:   5000,
			wantHost:   DefaultHost,
			wantSource: SourceEnv,
		},
		{
			name:       "zero env port and blank host fall through to default",
			env:        map[string]string{EnvPort: "0", EnvHost: "  "},
			file:       map[string]string{"ui.port": "65536"},
			wantPort:   DefaultPort,
			wantHost:   DefaultHost,
			wantSource: SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(t)
			touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))

			opts := l.opts(tt.env, tt.file)
			opts.Port = tt.flagPort
			opts.Host = tt.flagHost
			cfg, err := Resolve(opts)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", cfg.Port, tt.wantPort)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", cfg.Host, tt.wantHost)
			}
			if cfg.PortSource != tt.wantSource {
				t.Errorf("PortSource = %q, want %q", cfg.PortSource, tt.wantSource)
			}
		})
	}
}

func TestResolve_CandidateOrder(t *testing.T) {
	l := newLayout(t)
	source := filepath.Join(l.install, "ui", "server", "index.ts")
	bundle := filepath.Join(l.install, "ui", "dist", "server.mjs")
	touch(t, source)
	touch(t, bundle)

	cfg, err := Resolve(l.opts(nil, nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.EntryPoint != source || !cfg.NeedsShim {
		t.Errorf("entry = %q (shim %v), want %q with shim", cfg.EntryPoint, cfg.NeedsShim, source)
	}
	if cfg.WorkDir != filepath.Join(l.install, "ui") {
		t.Errorf("WorkDir = %q, want %q", cfg.WorkDir, filepath.Join(l.install, "ui"))
	}

	for _, flag := range []string{EnvPrebuilt, EnvNoShim} {
		cfg, err = Resolve(l.opts(map[string]string{flag: "true"}, nil))
		if err != nil {
			t.Fatalf("Resolve with %s failed: %v", flag, err)
		}
		if cfg.EntryPoint != bundle || cfg.NeedsShim {
			t.Errorf("with %s: entry = %q (shim %v), want %q without shim", flag, cfg.EntryPoint, cfg.NeedsShim, bundle)
		}
	}
}

func TestResolve_HomeCandidate(t *testing.T) {
	l := newLayout(t)
	entry := filepath.Join(l.home, "ui", "dist", "server.mjs")
	touch(t, entry)

	cfg, err := Resolve(l.opts(nil, nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.EntryPoint != entry {
		t.Errorf("EntryPoint = %q, want %q", cfg.EntryPoint, entry)
	}
}

func TestResolve_NoCandidate(t *testing.T) {
	l := newLayout(t)

	_, err := Resolve(l.opts(nil, nil))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve error = %v, want *ConfigurationError", err)
	}

	want := []string{
		filepath.Join(l.install, "ui", "server", "index.ts"),
		filepath.Join(l.install, "ui", "dist", "server.mjs"),
		filepath.Join(l.home, "ui", "server", "index.ts"),
		filepath.Join(l.home, "ui", "dist", "server.mjs"),
	}
	if len(cfgErr.Candidates) != len(want) {
		t.Fatalf("Candidates = %v, want %v", cfgErr.Candidates, want)
	}
	for i := range want {
		if cfgErr.Candidates[i] != want[i] {
			t.Errorf("Candidates[%d] = %q, want %q", i, cfgErr.Candidates[i], want[i])
		}
	}
}

func TestResolve_NoCandidatePrebuilt(t *testing.T) {
	l := newLayout(t)

	_, err := Resolve(l.opts(map[string]string{EnvPrebuilt: "1"}, nil))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve error = %v, want *ConfigurationError", err)
	}
	if len(cfgErr.Candidates) != 2 {
		t.Errorf("Candidates = %v, want only the two prebuilt bundles", cfgErr.Candidates)
	}
}

func TestResolve_EntryOverride(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))
	custom := filepath.Join(t.TempDir(), "custom", "main.ts")
	touch(t, custom)

	cfg, err := Resolve(l.opts(map[string]string{EnvEntry: custom}, nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.EntryPoint != custom || !cfg.NeedsShim || cfg.WorkDir != filepath.Dir(custom) {
		t.Errorf("cfg = %+v, want override %q with shim", cfg, custom)
	}
}

func TestResolve_EntryOverrideMissing(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))
	missing := filepath.Join(t.TempDir(), "gone.mjs")

	_, err := Resolve(l.opts(map[string]string{EnvEntry: missing}, nil))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve error = %v, want *ConfigurationError", err)
	}
	if !cfgErr.Override || len(cfgErr.Candidates) != 1 || cfgErr.Candidates[0] != missing {
		t.Errorf("ConfigurationError = %+v, want override listing %q", cfgErr, missing)
	}
}

func TestResolve_ChildEnv(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))
	if err := os.MkdirAll(filepath.Join(l.home, "env"), 0700); err != nil {
		t.Fatal(err)
	}
	envFile := "OPENAI_API_KEY=sk-test\nNODE_ENV=staging\n"
	if err := os.WriteFile(filepath.Join(l.home, "env", "ui.env"), []byte(envFile), 0600); err != nil {
		t.Fatal(err)
	}

	opts := l.opts(nil, nil)
	opts.Port = 4000
	opts.Host = "0.0.0.0"
	cfg, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := map[string]string{
		"PATH":                               "/usr/bin",
		"OPENAI_API_KEY":                     "sk-test",
		"NODE_ENV":                           "production",
		"AGENTBOARD_FORCE_TOOL_REGISTRATION": "1",
		"HOST":                               "0.0.0.0",
		"PORT":                               "4000",
		"AGENTBOARD_UI_HOST":                 "0.0.0.0",
		"AGENTBOARD_UI_PORT":                 "4000",
		"AGENTBOARD_HOME":                    l.home,
	}
	for k, v := range want {
		got, ok := runtime.LookupEnv(cfg.Env, k)
		if !ok || got != v {
			t.Errorf("child env %s = %q (set %v), want %q", k, got, ok, v)
		}
	}
	if want := filepath.Join(l.home, "run", "ui-4000.json"); cfg.StatePath != want {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath, want)
	}
}

func TestResolve_DoesNotMutateBaseEnv(t *testing.T) {
	l := newLayout(t)
	touch(t, filepath.Join(l.install, "ui", "dist", "server.mjs"))
	opts := l.opts(nil, nil)
	base := append([]string(nil), opts.BaseEnv...)

	if _, err := Resolve(opts); err != nil {
		t.Fatal(err)
	}
	for i := range base {
		if opts.BaseEnv[i] != base[i] {
			t.Errorf("BaseEnv[%d] changed to %q", i, opts.BaseEnv[i])
		}
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"19123", 19123, true},
		{" 80 ", 80, true},
		{"1", 1, true},
		{"65535", 65535, true},
		{"0", 0, false},
		{"65536", 0, false},
		{"-1", 0, false},
		{"80.5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePort(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePort(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveTarget_NoEntryNeeded(t *testing.T) {
	l := newLayout(t)
	opts := l.opts(map[string]string{EnvPort: "4000"}, map[string]string{"ui.host": "0.0.0.0"})

	cfg := ResolveTarget(opts)
	if cfg.Addr() != "0.0.0.0:4000" {
		t.Errorf("Addr = %s, want 0.0.0.0:4000", cfg.Addr())
	}
	if want := filepath.Join(l.home, "run", "ui-4000.json"); cfg.StatePath != want {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath, want)
	}
	if cfg.EntryPoint != "" || cfg.Env != nil {
		t.Errorf("ResolveTarget filled launch fields: %+v", cfg)
	}
}
