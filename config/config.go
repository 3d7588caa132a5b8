// Package config persists GUI preferences to a YAML file in the user's
// config directory. Tunnel-level settings (mode, DNS, protocol) live in
// adguardvpn-cli itself and are not duplicated here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/markotdel/adguardvpn-gui/common"
)

// Config holds the GUI preferences.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// RememberLastLocation reconnects to LastLocation instead of the
	// fastest endpoint when the user clicks Connect.
	RememberLastLocation bool `yaml:"remember_last_location"`
	// LastLocation is the most recently used location (city name).
	LastLocation string `yaml:"last_location"`
	// Language selects the UI language: "en", "ru", or "de".
	Language string `yaml:"language"`
	// ShowNotifications enables desktop notifications for connection events.
	ShowNotifications bool `yaml:"show_notifications"`
	// MinimizeToTray hides the window to the tray instead of quitting.
	MinimizeToTray bool `yaml:"minimize_to_tray"`
	// PollIntervalSeconds is the status poll period while the GUI runs.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	// WindowWidth and WindowHeight restore the last window geometry.
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RememberLastLocation: true,
		LastLocation:         "",
		Language:             common.LangEN,
		ShowNotifications:    true,
		MinimizeToTray:       true,
		PollIntervalSeconds:  int(common.StatusPollInterval.Seconds()),
		WindowWidth:          common.DefaultWindowWidth,
		WindowHeight:         common.DefaultWindowHeight,
	}
}

// Load reads the configuration from path. An empty path means the default
// location under the user's config directory. A missing file is created
// with default values.
func Load(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(common.ErrConfigLoad, err.Error())
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // reject unknown fields

	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, common.WrapError(common.ErrConfigLoad, err.Error())
	}

	config.validate()
	return config, nil
}

// validate clamps out-of-range values back to defaults rather than
// rejecting the file.
func (c *Config) validate() {
	if !common.StringInSlice(c.Language, []string{common.LangEN, common.LangRU, common.LangDE}) {
		c.Language = common.LangEN
	}
	if c.PollIntervalSeconds < 1 || c.PollIntervalSeconds > 60 {
		c.PollIntervalSeconds = int(common.StatusPollInterval.Seconds())
	}
	c.WindowWidth = clamp(c.WindowWidth, common.MinWindowSize, common.MaxWindowSize, common.DefaultWindowWidth)
	c.WindowHeight = clamp(c.WindowHeight, common.MinWindowSize, common.MaxWindowSize, common.DefaultWindowHeight)
}

func clamp(v, min, max, def int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	return c.SaveTo("")
}

// SaveTo writes the configuration to path (or the default location when
// path is empty), creating the directory if needed.
func (c *Config) SaveTo(path string) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return common.WrapError(common.ErrConfigSave, err.Error())
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return common.WrapError(common.ErrConfigSave, err.Error())
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return common.WrapError(common.ErrConfigSave, err.Error())
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return filepath.Join(dir, common.ConfigFileName), nil
}
