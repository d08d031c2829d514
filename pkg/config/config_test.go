package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Quality != 90 {
		t.Errorf("quality: expected 90, got %d", cfg.Quality)
	}
	if cfg.SeekTimeoutMs != 500 {
		t.Errorf("seek timeout: expected 500, got %d", cfg.SeekTimeoutMs)
	}
	if cfg.LoadTimeoutMs != 10000 {
		t.Errorf("load timeout: expected 10000, got %d", cfg.LoadTimeoutMs)
	}
	if cfg.StepSeconds != 0.1 {
		t.Errorf("step: expected 0.1, got %v", cfg.StepSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level: expected info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
quality: 75
seek_timeout_ms: 250
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
debug: true
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quality != 75 {
		t.Errorf("quality: expected 75, got %d", cfg.Quality)
	}
	if cfg.SeekTimeoutMs != 250 {
		t.Errorf("seek timeout: expected 250, got %d", cfg.SeekTimeoutMs)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg path: got %q", cfg.FFmpegPath)
	}
	if !cfg.Debug {
		t.Error("debug: expected true")
	}
	// Fields absent from the file keep their defaults.
	if cfg.LoadTimeoutMs != 10000 {
		t.Errorf("load timeout default: expected 10000, got %d", cfg.LoadTimeoutMs)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("quality: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestToSessionOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Quality = 80
	cfg.SeekTimeoutMs = 300

	opts := cfg.ToSessionOptions()
	if opts.JPEGQuality != 80 {
		t.Errorf("quality: expected 80, got %d", opts.JPEGQuality)
	}
	if opts.SeekTimeout != 300*time.Millisecond {
		t.Errorf("seek timeout: expected 300ms, got %s", opts.SeekTimeout)
	}
	if opts.MetadataTimeout != 10*time.Second {
		t.Errorf("metadata timeout: expected 10s, got %s", opts.MetadataTimeout)
	}
}
