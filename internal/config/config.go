// Package config loads researchctl settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"researchctl/internal/status"
	"researchctl/internal/upload"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig = "RESEARCHCTL_CONFIG"
	EnvServer = "RESEARCHCTL_SERVER"
)

// Config is the full client configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Upload  UploadConfig `yaml:"upload"`
	Timing  TimingConfig `yaml:"timing"`
	LogFile string       `yaml:"log_file"`

	// ConfigPath is the file the config was read from (not serialized)
	ConfigPath string `yaml:"-"`
}

// ServerConfig describes the research service.
type ServerConfig struct {
	URL            string        `yaml:"url"`
	ProbeURL       string        `yaml:"probe_url"` // defaults to URL
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// UploadConfig bounds PDF uploads.
type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// TimingConfig overrides the status controller delays.
type TimingConfig struct {
	Tick             time.Duration `yaml:"tick"`
	SlowRequest      time.Duration `yaml:"slow_request"`
	ConnectivityPoll time.Duration `yaml:"connectivity_poll"`
	ProbeTimeout     time.Duration `yaml:"probe_timeout"`
	ErrorDelay       time.Duration `yaml:"error_delay"`
	Cooldown         time.Duration `yaml:"cooldown"`
	Fade             time.Duration `yaml:"fade"`
	NoticeFade       time.Duration `yaml:"notice_fade"`

	// OfflineCheck is the background connectivity check interval, kept
	// short so a lost connection shows up outside the session's own poll.
	OfflineCheck time.Duration `yaml:"offline_check"`
}

// Default returns the default configuration.
func Default() *Config {
	t := status.DefaultTimings()
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:8000",
			RequestTimeout: 5 * time.Minute,
		},
		Upload: UploadConfig{
			MaxSizeMB: upload.DefaultMaxSize >> 20,
		},
		Timing: TimingConfig{
			Tick:             t.Tick,
			SlowRequest:      t.SlowRequest,
			ConnectivityPoll: t.ConnectivityPoll,
			ProbeTimeout:     t.ProbeTimeout,
			ErrorDelay:       t.ErrorDelay,
			Cooldown:         t.Cooldown,
			Fade:             t.Fade,
			NoticeFade:       t.NoticeFade,
			OfflineCheck:     time.Second,
		},
		LogFile: "researchctl.log",
	}
}

// Load builds the configuration. path overrides RESEARCHCTL_CONFIG; when
// neither is set only defaults and the environment apply. A file named
// explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.ConfigPath = path
	}

	if v := os.Getenv(EnvServer); v != "" {
		cfg.Server.URL = v
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server url is required")
	}
	if err := checkURL("server url", c.Server.URL); err != nil {
		return err
	}
	if c.Server.ProbeURL != "" {
		if err := checkURL("probe url", c.Server.ProbeURL); err != nil {
			return err
		}
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return errors.New("upload max size must be positive")
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"tick", c.Timing.Tick},
		{"slow_request", c.Timing.SlowRequest},
		{"connectivity_poll", c.Timing.ConnectivityPoll},
		{"probe_timeout", c.Timing.ProbeTimeout},
		{"error_delay", c.Timing.ErrorDelay},
		{"cooldown", c.Timing.Cooldown},
		{"fade", c.Timing.Fade},
		{"notice_fade", c.Timing.NoticeFade},
		{"offline_check", c.Timing.OfflineCheck},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("timing.%s must be positive, got %s", d.name, d.d)
		}
	}
	return nil
}

// ProbeTarget returns the URL used for connectivity checks.
func (c *Config) ProbeTarget() string {
	if c.Server.ProbeURL != "" {
		return c.Server.ProbeURL
	}
	return c.Server.URL
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxSizeMB << 20
}

// Timings converts the timing section for the status controller.
func (c *Config) Timings() status.Timings {
	return status.Timings{
		Tick:             c.Timing.Tick,
		SlowRequest:      c.Timing.SlowRequest,
		ConnectivityPoll: c.Timing.ConnectivityPoll,
		ProbeTimeout:     c.Timing.ProbeTimeout,
		ErrorDelay:       c.Timing.ErrorDelay,
		Cooldown:         c.Timing.Cooldown,
		Fade:             c.Timing.Fade,
		NoticeFade:       c.Timing.NoticeFade,
	}
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q: scheme must be http or https", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s %q: missing host", name, raw)
	}
	return nil
}
