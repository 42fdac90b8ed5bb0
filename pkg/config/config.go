// Package config defines land's configuration, loaded through viper from
// ~/.config/land/config.toml, a repo-local .land.toml, and LAND_* env vars.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
// Pull request identity comes from the URL argument, not configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Merge  MergeConfig  `mapstructure:"merge"`
	Editor EditorConfig `mapstructure:"editor"`
}

// GitHubConfig holds GitHub integration configuration.
type GitHubConfig struct {
	Host     string `mapstructure:"host"`      // API host; credentials are resolved for this host
	ClientID string `mapstructure:"client_id"` // OAuth app client ID (for 'land auth login' device flow)
}

// MergeConfig holds merge workflow configuration.
type MergeConfig struct {
	SavePassword bool `mapstructure:"save_password"` // Persist resolved credentials back to the store (--nosavepw wins)
}

// EditorConfig holds editor configuration overrides.
type EditorConfig struct {
	Command string `mapstructure:"command"` // Overrides git core.editor when set
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.GitHub.Host == "" {
		return errors.New("github.host must not be empty")
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// GitHub defaults. The host is fixed to the public API unless the user
	// points land at an enterprise instance.
	viper.SetDefault("github.host", "api.github.com")
	viper.SetDefault("github.client_id", "")

	// Merge defaults
	viper.SetDefault("merge.save_password", true)

	// Editor defaults (empty means resolve via git / $VISUAL / $EDITOR / vi)
	viper.SetDefault("editor.command", "")
}

// expandPaths expands ~ in path-valued settings.
func expandPaths(config *Config) error {
	var err error

	config.Editor.Command, err = expandPath(config.Editor.Command)
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
