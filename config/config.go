package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// FileName is the configuration file looked up in the working directory and
// then in the home directory.
const FileName = ".cobwalk.json"

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Query   QueryConfig   `json:"query"`
	Log     LogConfig     `json:"log"`
	// Aliases maps author ids to display names.
	Aliases map[string]string `json:"aliases"`
}

// StorageConfig locates the repositories and the read-model cache.
type StorageConfig struct {
	Root          string `json:"root" env:"COBWALK_STORAGE"`                 // Directory of bare repositories
	Database      string `json:"database" env:"COBWALK_DB"`                  // SQLite cache file
	BusyTimeoutMS int    `json:"busyTimeoutMs" env:"COBWALK_BUSY_TIMEOUT_MS"` // Default: 3000
}

// BusyTimeout returns the cache busy timeout.
func (s StorageConfig) BusyTimeout() time.Duration {
	return time.Duration(s.BusyTimeoutMS) * time.Millisecond
}

// QueryConfig holds listing defaults.
type QueryConfig struct {
	PageSize int `json:"pageSize" env:"COBWALK_PAGE_SIZE"` // Default: 20
	// Take is the number of refs listed per repository in the inbox.
	Take int `json:"take" env:"COBWALK_TAKE"` // Default: 20
}

// LogConfig holds logger options.
type LogConfig struct {
	Level       string `json:"level" env:"COBWALK_LOG_LEVEL"` // debug, info, warn, error
	Development bool   `json:"development" env:"COBWALK_LOG_DEVELOPMENT"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	root := ""
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		root = filepath.Join(home, ".radicle", "storage")
	}
	return &Config{
		Storage: StorageConfig{
			Root:          root,
			BusyTimeoutMS: 3000,
		},
		Query: QueryConfig{
			PageSize: 20,
			Take:     20,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Aliases: map[string]string{},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Storage.BusyTimeoutMS <= 0 {
		return fmt.Errorf("storage.busyTimeoutMs must be positive, got %d", c.Storage.BusyTimeoutMS)
	}
	if c.Query.PageSize <= 0 {
		return fmt.Errorf("query.pageSize must be positive, got %d", c.Query.PageSize)
	}
	if c.Query.Take <= 0 {
		return fmt.Errorf("query.take must be positive, got %d", c.Query.Take)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults, then
// applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
