package groundlink

import "testing"

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version    string
		minVersion string
		want       bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.0.1", "1.0.0", true},
		{"1.1.0", "1.0.9", true},
		{"2.0.0", "1.9.9", true},
		{"1.0.0", "1.0.1", false},
		{"1.0.0", "1.1.0", false},
		{"1.9.9", "2.0.0", false},
	}

	for _, tt := range tests {
		if got := isVersionCompatible(tt.version, tt.minVersion); got != tt.want {
			t.Errorf("isVersionCompatible(%q, %q) = %v, want %v",
				tt.version, tt.minVersion, got, tt.want)
		}
	}
}

func TestValidateModuleVersions(t *testing.T) {
	if err := validateModuleVersions(); err != nil {
		t.Errorf("validateModuleVersions() = %v, want nil", err)
	}
}
