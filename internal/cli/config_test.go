package cli

import "testing"

func TestValidateConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"ui.port", "4000", false},
		{"ui.port", "0", true},
		{"ui.port", "65536", true},
		{"ui.port", "abc", true},
		{"ui.host", "0.0.0.0", false},
		{"ui.host", "  ", true},
		{"other.key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := validateConfigValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfigValue(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
