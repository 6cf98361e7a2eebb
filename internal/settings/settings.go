// Package settings loads operator-level preferences for bloxsync.
// Unlike the product manifest, these settings live outside the project
// (~/.bloxsync/config.yaml) and tune tool behavior, not declared state.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds operator preferences, merged from defaults, the
// settings file, and BLOXSYNC_* environment variables in that order.
type Settings struct {
	// Retry tunes the rate-limit retry behavior.
	Retry RetrySettings `yaml:"retry"`

	// Output configures display preferences.
	Output OutputSettings `yaml:"output"`
}

// RetrySettings tunes backoff against the Roblox rate limiter.
type RetrySettings struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `yaml:"max_retries"`
	// BaseDelay is the first backoff delay; it doubles per attempt.
	BaseDelay time.Duration `yaml:"base_delay"`
}

// UnmarshalYAML accepts base_delay in time.ParseDuration form ("500ms")
// and preserves defaults for absent fields.
func (r *RetrySettings) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxRetries *int   `yaml:"max_retries"`
		BaseDelay  string `yaml:"base_delay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MaxRetries != nil {
		r.MaxRetries = *raw.MaxRetries
	}
	if raw.BaseDelay != "" {
		d, err := time.ParseDuration(raw.BaseDelay)
		if err != nil {
			return fmt.Errorf("invalid retry.base_delay %q: %w", raw.BaseDelay, err)
		}
		r.BaseDelay = d
	}
	return nil
}

// MarshalYAML writes base_delay in the same human-readable form.
func (r RetrySettings) MarshalYAML() (any, error) {
	return map[string]any{
		"max_retries": r.MaxRetries,
		"base_delay":  r.BaseDelay.String(),
	}, nil
}

// OutputSettings holds display preferences.
type OutputSettings struct {
	// Color controls color output (auto, always, never).
	Color string `yaml:"color"`
	// Verbose enables info-level logging by default.
	Verbose bool `yaml:"verbose"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		Retry: RetrySettings{
			MaxRetries: 5,
			BaseDelay:  500 * time.Millisecond,
		},
		Output: OutputSettings{
			Color: "auto",
		},
	}
}

// Dir returns the bloxsync settings directory (~/.bloxsync).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bloxsync"
	}
	return filepath.Join(home, ".bloxsync")
}

// FilePath returns the path to the settings file.
func FilePath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load loads settings from the default file path, merging with defaults.
// A missing file is not an error; defaults plus environment apply.
func Load() (*Settings, error) {
	return LoadFromPath(FilePath())
}

// LoadFromPath loads settings from a specific path.
func LoadFromPath(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path) // #nosec G304 - settings path is operator-controlled
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnvironment()
			return s, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}

	s.applyEnvironment()
	return s, nil
}

// Save writes the settings to the default file path.
func (s *Settings) Save() error {
	path := FilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	// #nosec G306 - settings file should be readable by the user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies BLOXSYNC_<SECTION>_<KEY> overrides.
func (s *Settings) applyEnvironment() {
	if v := os.Getenv("BLOXSYNC_RETRY_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.Retry.MaxRetries = n
		}
	}
	if v := os.Getenv("BLOXSYNC_RETRY_BASE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.Retry.BaseDelay = d
		}
	}
	if v := os.Getenv("BLOXSYNC_OUTPUT_COLOR"); v != "" {
		s.Output.Color = v
	}
	if v := os.Getenv("BLOXSYNC_OUTPUT_VERBOSE"); v != "" {
		s.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}
