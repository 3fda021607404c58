// Package config loads policycat settings from ~/.policycat/config.yaml and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Resolve.
const (
	EnvConfigPath = "POLICYCAT_CONFIG"
	EnvBaseURL    = "POLICYCAT_BASE_URL"
	EnvTimeout    = "POLICYCAT_TIMEOUT"
	EnvOutput     = "POLICYCAT_OUTPUT"
	EnvLogLevel   = "POLICYCAT_LOG_LEVEL"
)

// ErrProfileNotFound is returned when a named profile does not exist
var ErrProfileNotFound = errors.New("profile not found")

// UserConfig represents ~/.policycat/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile represents a single named configuration profile.
type Profile struct {
	BaseURL  string `yaml:"base-url,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
	Output   string `yaml:"output,omitempty"`
	LogLevel string `yaml:"log-level,omitempty"`
}

// ActiveProfile returns the profile named by override, or the current
// profile when override is empty. A missing current profile yields an empty
// Profile; a missing override is an error.
func (c *UserConfig) ActiveProfile(override string) (Profile, error) {
	name := c.CurrentProfile
	if override != "" {
		name = override
	}
	if p, ok := c.Profiles[name]; ok {
		return p, nil
	}
	if override != "" {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, override)
	}
	return Profile{}, nil
}

// Dir returns the path to ~/.policycat/.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".policycat")
}

// Path returns the config file location, honouring POLICYCAT_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path.
func Load(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Settings are the effective values after applying precedence.
type Settings struct {
	BaseURL  string
	Timeout  time.Duration
	Output   string
	LogLevel string
}

// Overrides carries values set explicitly on the command line. Empty or
// zero fields are not set.
type Overrides struct {
	BaseURL  string
	Timeout  time.Duration
	Output   string
	LogLevel string
}

// Resolve applies flag > env > profile > default precedence. A missing
// config file is not an error.
func Resolve(path, profile string, flags Overrides, defaults Settings) (Settings, error) {
	var p Profile
	cfg, err := Load(path)
	switch {
	case err == nil:
		p, err = cfg.ActiveProfile(profile)
		if err != nil {
			return Settings{}, err
		}
	case profile != "":
		return Settings{}, fmt.Errorf("%w: %q (%v)", ErrProfileNotFound, profile, err)
	}

	s := defaults
	s.BaseURL = pick(flags.BaseURL, os.Getenv(EnvBaseURL), p.BaseURL, defaults.BaseURL)
	s.Output = pick(flags.Output, os.Getenv(EnvOutput), p.Output, defaults.Output)
	s.LogLevel = pick(flags.LogLevel, os.Getenv(EnvLogLevel), p.LogLevel, defaults.LogLevel)

	if flags.Timeout > 0 {
		s.Timeout = flags.Timeout
		return s, nil
	}
	if raw := pick(os.Getenv(EnvTimeout), p.Timeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("invalid timeout %q: must be positive", raw)
		}
		s.Timeout = d
	}
	return s, nil
}

// pick returns the first non-empty value
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
