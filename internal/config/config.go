// Package config loads the user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName         = "lectern"
	configFileName  = "config.yml"
	historyFileName = "history.db"

	DefaultMaxTextWidth = 80
	minTextWidth        = 20
)

// LoggingConfig controls the session log file. A TUI owns the terminal,
// so there is no console logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // none | normal | debug
	File  string `yaml:"file,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	MaxTextWidth int           `yaml:"max_text_width"`
	HistoryPath  string        `yaml:"history_path,omitempty"`
	Logging      LoggingConfig `yaml:"logging"`
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		MaxTextWidth: DefaultMaxTextWidth,
		Logging:      LoggingConfig{Level: "none"},
	}

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
		// No user config, run on defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.MaxTextWidth < minTextWidth {
		cfg.MaxTextWidth = DefaultMaxTextWidth
	}
	if cfg.HistoryPath == "" {
		p, err := defaultHistoryPath()
		if err != nil {
			return nil, err
		}
		cfg.HistoryPath = p
	}
	return cfg, nil
}

func defaultConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFileName), nil
}

func defaultHistoryPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, historyFileName), nil
}

func userConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil {
		return dir, nil
	}
	home, herr := os.UserHomeDir()
	if herr != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
