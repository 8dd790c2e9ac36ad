package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "agentboard" {
		t.Errorf("CLIName() = %q, want %q", got, "agentboard")
	}
	if got := HomeDir(); got != ".agentboard" {
		t.Errorf("HomeDir() = %q, want %q", got, ".agentboard")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"HOME", "AGENTBOARD_HOME"},
		{"ui_port", "AGENTBOARD_UI_PORT"},
		{"Ui_Entry", "AGENTBOARD_UI_ENTRY"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
