package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gl-labs/groundlink/pkg/series"
)

// DefaultListenAddr is the conventional UDP telemetry port.
const DefaultListenAddr = ":14550"

// Config holds CLI configuration for groundlink.
type Config struct {
	// Dialect schema
	DialectPath  string
	IncludeDir   string
	WatchDialect bool

	// Byte source: UDP listener, or capture replay when ReplayPath is set.
	ListenAddr     string
	ReplayPath     string
	ReplayChunk    int
	ReplayInterval time.Duration

	// Store and view
	FieldCapacity         int
	TargetPoints          int
	EnablePointDecimation bool
	ViewSpan              time.Duration
	RedrawInterval        time.Duration
	StalenessWindow       time.Duration

	// Observability
	MetricsListen string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:            DefaultListenAddr,
		ReplayChunk:           1024,
		FieldCapacity:         series.DefaultFieldCapacity,
		TargetPoints:          500,
		EnablePointDecimation: true,
		ViewSpan:              30 * time.Second,
		RedrawInterval:        time.Second,
		StalenessWindow:       5 * time.Second,
		WatchDialect:          true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DialectPath == "" {
		return fmt.Errorf("dialect is required")
	}
	if c.ListenAddr == "" && c.ReplayPath == "" {
		return fmt.Errorf("either listen or replay is required")
	}
	if c.FieldCapacity <= 0 {
		return fmt.Errorf("field capacity must be positive")
	}
	if c.TargetPoints < 2 {
		return fmt.Errorf("target points must be at least 2")
	}
	if c.ViewSpan <= 0 {
		return fmt.Errorf("view span must be positive")
	}
	if c.RedrawInterval <= 0 {
		return fmt.Errorf("redraw interval must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination if valid.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return
	}
	*dst = b
}
