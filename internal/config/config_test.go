package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir_Override(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("AGENTBOARD_HOME", tmp)

	if got := Dir(); got != tmp {
		t.Errorf("Dir() = %q, want %q", got, tmp)
	}
	if got, want := FilePath(), filepath.Join(tmp, "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestDir_TildeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("AGENTBOARD_HOME", "~/boards")

	if got, want := Dir(), filepath.Join(home, "boards"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestDir_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("AGENTBOARD_HOME", "")

	if got, want := Dir(), filepath.Join(home, ".agentboard"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"/abs/path", filepath.Clean("/abs/path")},
		{"~other/x", filepath.Clean("~other/x")},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileValue(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("AGENTBOARD_HOME", tmp)
	t.Setenv("AGENTBOARD_UI_PORT", "4000")

	content := "ui:\n  port: 5000\n  host: 0.0.0.0\n"
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if got := FileValue(KeyUIPort); got != "5000" {
		t.Errorf("FileValue(%q) = %q, want %q (environment must not leak in)", KeyUIPort, got, "5000")
	}
	if got := FileValue(KeyUIHost); got != "0.0.0.0" {
		t.Errorf("FileValue(%q) = %q, want %q", KeyUIHost, got, "0.0.0.0")
	}
}

func TestFileValue_MissingFile(t *testing.T) {
	t.Setenv("AGENTBOARD_HOME", t.TempDir())

	if got := FileValue(KeyUIPort); got != "" {
		t.Errorf("FileValue on missing file = %q, want empty", got)
	}
}
