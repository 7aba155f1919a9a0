// Package config loads and saves the dashboard's client configuration:
// the backend server URL, the user role, and the feature flags that gate
// sections of the UI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "arrdash"
	configFile = "config.yaml"
	stateFile  = "state.yaml"
)

// Feature flag names, as used by section gates.
const (
	FlagRequestarr = "requestarr"
	FlagMediaHunt  = "media_hunt"
	FlagLowUsage   = "low_usage_mode"
)

// Roles recognised by role-gated sections.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Features are the toggles that gate optional parts of the dashboard.
type Features struct {
	Requestarr   bool `yaml:"requestarr"`
	MediaHunt    bool `yaml:"media_hunt"`
	LowUsageMode bool `yaml:"low_usage_mode"`
}

// Config is the persisted client configuration.
type Config struct {
	Version   int      `yaml:"version"`
	ServerURL string   `yaml:"server_url"`
	Role      string   `yaml:"role"`
	Features  Features `yaml:"features"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Version: 1,
		Role:    RoleAdmin,
		Features: Features{
			Requestarr: true,
			MediaHunt:  true,
		},
	}
}

// Flags returns the feature flags as a name -> enabled map for gate
// predicates.
func (c *Config) Flags() map[string]bool {
	return map[string]bool{
		FlagRequestarr: c.Features.Requestarr,
		FlagMediaHunt:  c.Features.MediaHunt,
		FlagLowUsage:   c.Features.LowUsageMode,
	}
}

// Dir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/arrdash or $HOME/.config/arrdash
//   - macOS: $HOME/.config/arrdash (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\arrdash
func Dir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// Path returns the full path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// StatePath returns the path of the persisted client-state file (pending
// navigation target, settings snapshot).
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFile), nil
}

// Load reads the configuration file, returning defaults when none exists.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a configuration file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", cfg.Version)
	}
	if cfg.Role == "" {
		cfg.Role = RoleUser
	}
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename).
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# arrdash client configuration
#
# server_url: base URL of the dashboard backend. Leave empty to discover
# the server on the local network via mDNS.
# role: "admin" or "user"; some sections are admin-only.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
