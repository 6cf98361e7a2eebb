package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Retry.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", s.Retry.MaxRetries)
	}
	if s.Retry.BaseDelay != 500*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 500ms", s.Retry.BaseDelay)
	}
	if s.Output.Color != "auto" {
		t.Errorf("Color = %q, want auto", s.Output.Color)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s := Default()
	s.Retry.MaxRetries = 7
	s.Retry.BaseDelay = 2 * time.Second
	s.Output.Color = "never"

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Retry.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", loaded.Retry.MaxRetries)
	}
	if loaded.Retry.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", loaded.Retry.BaseDelay)
	}
	if loaded.Output.Color != "never" {
		t.Errorf("Color = %q, want never", loaded.Output.Color)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	s, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("missing settings file should not error: %v", err)
	}
	if s.Retry.MaxRetries != 5 {
		t.Errorf("expected defaults for missing file, got %+v", s)
	}
}

func TestLoadFromPath_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
retry:
  max_retries: 2
  base_delay: 100ms
output:
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	s, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if s.Retry.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", s.Retry.MaxRetries)
	}
	if s.Retry.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 100ms", s.Retry.BaseDelay)
	}
	if !s.Output.Verbose {
		t.Error("Verbose should be true")
	}
	// Untouched values keep their defaults.
	if s.Output.Color != "auto" {
		t.Errorf("Color = %q, want auto", s.Output.Color)
	}
}

func TestLoadFromPath_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("retry: [broken"), 0o600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected error for malformed settings")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BLOXSYNC_RETRY_MAX_RETRIES", "9")
	t.Setenv("BLOXSYNC_RETRY_BASE_DELAY", "2s")
	t.Setenv("BLOXSYNC_OUTPUT_COLOR", "never")
	t.Setenv("BLOXSYNC_OUTPUT_VERBOSE", "yes")

	s, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if s.Retry.MaxRetries != 9 {
		t.Errorf("MaxRetries = %d, want 9", s.Retry.MaxRetries)
	}
	if s.Retry.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", s.Retry.BaseDelay)
	}
	if s.Output.Color != "never" {
		t.Errorf("Color = %q, want never", s.Output.Color)
	}
	if !s.Output.Verbose {
		t.Error("Verbose should be true from env")
	}
}

func TestEnvironmentOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("BLOXSYNC_RETRY_MAX_RETRIES", "-1")
	t.Setenv("BLOXSYNC_RETRY_BASE_DELAY", "soon")

	s, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if s.Retry.MaxRetries != 5 {
		t.Errorf("invalid max_retries should be ignored, got %d", s.Retry.MaxRetries)
	}
	if s.Retry.BaseDelay != 500*time.Millisecond {
		t.Errorf("invalid base_delay should be ignored, got %v", s.Retry.BaseDelay)
	}
}
