package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Git      GitConfig      `mapstructure:"git"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the embedded SQLite datastore configuration
type DatabaseConfig struct {
	// Path is the SQLite database file; ":memory:" keeps the catalog
	// process-lifetime only
	Path string `mapstructure:"path"`
}

// GitConfig holds configuration for the git collaborator
type GitConfig struct {
	// Binary is the git executable invoked for log traversal
	Binary string `mapstructure:"binary"`
}

// GitHubConfig holds GitHub API client configuration
type GitHubConfig struct {
	// Endpoint is the REST API base URL; override for GitHub Enterprise
	Endpoint string `mapstructure:"endpoint"`

	// Token is an optional bearer token for authenticated requests
	Token string `mapstructure:"token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Output     string `mapstructure:"output"` // console, file
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json, console
}

// Load reads configuration from file and environment variables.
// It supports loading from:
// 1. Explicit file path (if provided and exists on filesystem)
// 2. Common filesystem locations
// 3. Environment variables (always applied as overrides)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")

	v.SetEnvPrefix("GITDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configLoaded := false

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			configLoaded = true
		}
	}

	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gitdeck"))
		}

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath())

	// Git defaults
	v.SetDefault("git.binary", "git")

	// GitHub defaults
	v.SetDefault("github.endpoint", "https://api.github.com")
	v.SetDefault("github.token", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("logging.output_path", "")
	v.SetDefault("logging.format", "json")
}

// overrideFromEnv handles special environment variable overrides
func overrideFromEnv(v *viper.Viper) {
	// Token from env (more secure than config file)
	if token := os.Getenv("GITDECK_GITHUB_TOKEN"); token != "" {
		v.Set("github.token", token)
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./gitdeck.db"
	}
	return filepath.Join(home, ".local", "share", "gitdeck", "gitdeck.db")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Git.Binary == "" {
		return fmt.Errorf("git binary is required")
	}

	if c.GitHub.Endpoint == "" {
		return fmt.Errorf("github endpoint is required")
	}

	switch c.Logging.Output {
	case "", "console":
	case "file":
		if c.Logging.OutputPath == "" {
			return fmt.Errorf("logging output path is required for file output")
		}
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	return nil
}
