// Package config handles looseleaf configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Backend BackendConfig `mapstructure:"backend"`
	UI      UIConfig      `mapstructure:"ui"`
	LogPath string        `mapstructure:"log_path"`
	Debug   bool          `mapstructure:"debug"`
}

// StorageConfig holds local persistence settings
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// BackendConfig holds settings applied to every backend connection
type BackendConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// UIConfig holds user interface preferences
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// DefaultConnectTimeout bounds how long a connect attempt may block.
const DefaultConnectTimeout = 5 * time.Second

// LoadConfig loads configuration from YAML file and environment variables.
// An explicit path bypasses the search paths; a missing explicit file is an
// error, a missing searched file is not.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.config/looseleaf")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LOOSELEAF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults sets default configuration values
func applyDefaults() {
	viper.SetDefault("storage.path", defaultStoragePath())
	viper.SetDefault("backend.connect_timeout", DefaultConnectTimeout)
	viper.SetDefault("ui.theme", "dark")
	viper.SetDefault("log_path", "")
	viper.SetDefault("debug", false)
}

func defaultStoragePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".config", "looseleaf", "looseleaf.db")
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}

	if cfg.Backend.ConnectTimeout < time.Second || cfg.Backend.ConnectTimeout > time.Minute {
		return fmt.Errorf(
			"backend.connect_timeout must be between 1s and 1m, got %v",
			cfg.Backend.ConnectTimeout,
		)
	}

	validThemes := []string{"dark", "light"}
	validTheme := false
	for _, theme := range validThemes {
		if cfg.UI.Theme == theme {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("ui.theme must be one of: %v, got %s", validThemes, cfg.UI.Theme)
	}

	return nil
}
