package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Dialect         string `toml:"dialect"`
	IncludeDir      string `toml:"include_dir"`
	WatchDialect    *bool  `toml:"watch_dialect"`
	Listen          string `toml:"listen"`
	Replay          string `toml:"replay"`
	ReplayChunk     int    `toml:"replay_chunk"`
	ReplayInterval  string `toml:"replay_interval"`
	FieldCapacity   int    `toml:"field_capacity"`
	TargetPoints    int    `toml:"target_points"`
	Decimate        *bool  `toml:"decimate"`
	ViewSpan        string `toml:"view_span"`
	RedrawInterval  string `toml:"redraw_interval"`
	StalenessWindow string `toml:"staleness_window"`
	MetricsListen   string `toml:"metrics_listen"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.groundlink/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".groundlink", "config.toml")
	}
	return ""
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dialect", fc.Dialect, &cfg.DialectPath)
	s.setString("include-dir", fc.IncludeDir, &cfg.IncludeDir)
	s.setString("listen", fc.Listen, &cfg.ListenAddr)
	s.setString("replay", fc.Replay, &cfg.ReplayPath)
	s.setString("metrics-listen", fc.MetricsListen, &cfg.MetricsListen)

	s.setInt("replay-chunk", fc.ReplayChunk, &cfg.ReplayChunk)
	s.setInt("field-capacity", fc.FieldCapacity, &cfg.FieldCapacity)
	s.setInt("target-points", fc.TargetPoints, &cfg.TargetPoints)

	if err := s.setDuration("replay-interval", fc.ReplayInterval, &cfg.ReplayInterval); err != nil {
		return err
	}
	if err := s.setDuration("view-span", fc.ViewSpan, &cfg.ViewSpan); err != nil {
		return err
	}
	if err := s.setDuration("redraw-interval", fc.RedrawInterval, &cfg.RedrawInterval); err != nil {
		return err
	}
	if err := s.setDuration("staleness-window", fc.StalenessWindow, &cfg.StalenessWindow); err != nil {
		return err
	}

	s.setBool("decimate", fc.Decimate, &cfg.EnablePointDecimation)
	s.setBool("watch-dialect", fc.WatchDialect, &cfg.WatchDialect)

	return nil
}
