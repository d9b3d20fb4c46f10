package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Dialect:      "/etc/groundlink/common.toml",
				Listen:       ":14551",
				TargetPoints: 250,
				ViewSpan:     "1m",
				Decimate:     &falseVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				DialectPath:           "/etc/groundlink/common.toml",
				ListenAddr:            ":14551",
				TargetPoints:          250,
				ViewSpan:              time.Minute,
				EnablePointDecimation: false,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Dialect: "/config/dialect.toml",
				Listen:  ":9999",
			},
			changed: map[string]bool{"dialect": true},
			initial: Config{
				DialectPath: "/flag/dialect.toml",
			},
			expected: Config{
				DialectPath: "/flag/dialect.toml", // unchanged because flag was set
				ListenAddr:  ":9999",
			},
			wantErr: false,
		},
		{
			name: "handles all field types correctly",
			fileConfig: FileConfig{
				Dialect:         "/d.toml",
				IncludeDir:      "/includes",
				WatchDialect:    &falseVal,
				Listen:          ":14550",
				Replay:          "/captures/flight.bin",
				ReplayChunk:     2048,
				ReplayInterval:  "10ms",
				FieldCapacity:   5000,
				TargetPoints:    100,
				Decimate:        &trueVal,
				ViewSpan:        "45s",
				RedrawInterval:  "500ms",
				StalenessWindow: "3s",
				MetricsListen:   ":9090",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				DialectPath:           "/d.toml",
				IncludeDir:            "/includes",
				WatchDialect:          false,
				ListenAddr:            ":14550",
				ReplayPath:            "/captures/flight.bin",
				ReplayChunk:           2048,
				ReplayInterval:        10 * time.Millisecond,
				FieldCapacity:         5000,
				TargetPoints:          100,
				EnablePointDecimation: true,
				ViewSpan:              45 * time.Second,
				RedrawInterval:        500 * time.Millisecond,
				StalenessWindow:       3 * time.Second,
				MetricsListen:         ":9090",
			},
			wantErr: false,
		},
		{
			name: "staleness window flag wins over file value",
			fileConfig: FileConfig{
				StalenessWindow: "99s",
			},
			changed: map[string]bool{"staleness-window": true},
			initial: Config{
				StalenessWindow: 10 * time.Second,
			},
			expected: Config{
				StalenessWindow: 10 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				ViewSpan: "not-a-duration",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}
			if cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
dialect = "/opt/dialects/common.toml"
listen = ":14552"
target_points = 300
view_span = "20s"
decimate = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.Dialect != "/opt/dialects/common.toml" {
		t.Errorf("Dialect = %q", fc.Dialect)
	}
	if fc.Listen != ":14552" {
		t.Errorf("Listen = %q", fc.Listen)
	}
	if fc.TargetPoints != 300 {
		t.Errorf("TargetPoints = %d", fc.TargetPoints)
	}
	if fc.ViewSpan != "20s" {
		t.Errorf("ViewSpan = %q", fc.ViewSpan)
	}
	if fc.Decimate == nil || *fc.Decimate {
		t.Errorf("Decimate = %v, want false", fc.Decimate)
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("listen = [what"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() expected error for malformed TOML")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if FileExists(path) {
		t.Error("FileExists() = true for missing file")
	}
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
}
