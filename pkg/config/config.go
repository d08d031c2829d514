// Package config provides configuration loading and management.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/framepick/pkg/scrub"
)

// Config represents the full configuration for framepick.
type Config struct {
	// Capture
	Quality       int `yaml:"quality"`
	SeekTimeoutMs int `yaml:"seek_timeout_ms"`
	LoadTimeoutMs int `yaml:"load_timeout_ms"`

	// Scrub control granularity, consumed by UI layers.
	StepSeconds float64 `yaml:"step_seconds"`

	// Decoder backends
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Quality:       scrub.DefaultJPEGQuality,
		SeekTimeoutMs: 500,
		LoadTimeoutMs: 10000,
		StepSeconds:   0.1,
		LogLevel:      "info",
		DebugDir:      "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file, on top of defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ToSessionOptions converts Config to scrub session options.
func (c Config) ToSessionOptions() scrub.Options {
	return scrub.Options{
		MetadataTimeout: time.Duration(c.LoadTimeoutMs) * time.Millisecond,
		SeekTimeout:     time.Duration(c.SeekTimeoutMs) * time.Millisecond,
		JPEGQuality:     c.Quality,
	}
}
