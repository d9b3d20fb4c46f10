package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (GROUNDLINK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dialect", os.Getenv("GROUNDLINK_DIALECT"), &cfg.DialectPath)
	s.setString("include-dir", os.Getenv("GROUNDLINK_INCLUDE_DIR"), &cfg.IncludeDir)
	s.setString("listen", os.Getenv("GROUNDLINK_LISTEN"), &cfg.ListenAddr)
	s.setString("replay", os.Getenv("GROUNDLINK_REPLAY"), &cfg.ReplayPath)
	s.setString("metrics-listen", os.Getenv("GROUNDLINK_METRICS_LISTEN"), &cfg.MetricsListen)

	if err := s.setIntFromString("replay-chunk", os.Getenv("GROUNDLINK_REPLAY_CHUNK"), &cfg.ReplayChunk); err != nil {
		return err
	}
	if err := s.setIntFromString("field-capacity", os.Getenv("GROUNDLINK_FIELD_CAPACITY"), &cfg.FieldCapacity); err != nil {
		return err
	}
	if err := s.setIntFromString("target-points", os.Getenv("GROUNDLINK_TARGET_POINTS"), &cfg.TargetPoints); err != nil {
		return err
	}

	if err := s.setDuration("replay-interval", os.Getenv("GROUNDLINK_REPLAY_INTERVAL"), &cfg.ReplayInterval); err != nil {
		return err
	}
	if err := s.setDuration("view-span", os.Getenv("GROUNDLINK_VIEW_SPAN"), &cfg.ViewSpan); err != nil {
		return err
	}
	if err := s.setDuration("redraw-interval", os.Getenv("GROUNDLINK_REDRAW_INTERVAL"), &cfg.RedrawInterval); err != nil {
		return err
	}
	if err := s.setDuration("staleness-window", os.Getenv("GROUNDLINK_STALENESS_WINDOW"), &cfg.StalenessWindow); err != nil {
		return err
	}

	s.setBoolFromString("decimate", os.Getenv("GROUNDLINK_DECIMATE"), &cfg.EnablePointDecimation)
	s.setBoolFromString("watch-dialect", os.Getenv("GROUNDLINK_WATCH_DIALECT"), &cfg.WatchDialect)

	return nil
}
