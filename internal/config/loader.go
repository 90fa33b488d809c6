package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDir  = ".config/notepadzone"
	configFile = "config.json"
)

// Environment overrides. These win over the config file so secrets and
// addresses can stay out of it.
const (
	EnvBackend     = "NOTEPADZONE_STORE"
	EnvDatabaseURL = "NOTEPADZONE_DATABASE_URL"
	EnvRedisAddr   = "NOTEPADZONE_REDIS_ADDR"
	EnvSQLitePath  = "NOTEPADZONE_SQLITE_PATH"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	Store  rawStoreConfig `json:"store"`
	UI     rawUIConfig    `json:"ui"`
	Log    rawLogConfig   `json:"log"`
	Server ServerConfig   `json:"server"`
}

type rawStoreConfig struct {
	Backend  string            `json:"backend"`
	SQLite   SQLiteConfig      `json:"sqlite"`
	Postgres rawPostgresConfig `json:"postgres"`
	Redis    rawRedisConfig    `json:"redis"`
}

type rawPostgresConfig struct {
	URL      string `json:"url"`
	MinConns *int32 `json:"minConns"`
	MaxConns *int32 `json:"maxConns"`
}

type rawRedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       *int   `json:"db"`
	Prefix   string `json:"prefix"`
}

type rawUIConfig struct {
	TruncateLimit *int   `json:"truncateLimit"`
	TimeFormat    string `json:"timeFormat"`
}

type rawLogConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  *int   `json:"maxSizeMB"`
	MaxBackups *int   `json:"maxBackups"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/notepadzone/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var raw rawConfig
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
			mergeConfig(cfg, &raw)
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, err
		}
	}

	applyEnv(cfg)

	cfg.Store.SQLite.Path = ExpandPath(cfg.Store.SQLite.Path)
	cfg.Log.Path = ExpandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Store
	if raw.Store.Backend != "" {
		cfg.Store.Backend = raw.Store.Backend
	}
	if raw.Store.SQLite.Path != "" {
		cfg.Store.SQLite.Path = raw.Store.SQLite.Path
	}
	if raw.Store.SQLite.Driver != "" {
		cfg.Store.SQLite.Driver = raw.Store.SQLite.Driver
	}
	if raw.Store.Postgres.URL != "" {
		cfg.Store.Postgres.URL = raw.Store.Postgres.URL
	}
	if raw.Store.Postgres.MinConns != nil {
		cfg.Store.Postgres.MinConns = *raw.Store.Postgres.MinConns
	}
	if raw.Store.Postgres.MaxConns != nil {
		cfg.Store.Postgres.MaxConns = *raw.Store.Postgres.MaxConns
	}
	if raw.Store.Redis.Addr != "" {
		cfg.Store.Redis.Addr = raw.Store.Redis.Addr
	}
	if raw.Store.Redis.Password != "" {
		cfg.Store.Redis.Password = raw.Store.Redis.Password
	}
	if raw.Store.Redis.DB != nil {
		cfg.Store.Redis.DB = *raw.Store.Redis.DB
	}
	if raw.Store.Redis.Prefix != "" {
		cfg.Store.Redis.Prefix = raw.Store.Redis.Prefix
	}

	// UI
	if raw.UI.TruncateLimit != nil {
		cfg.UI.TruncateLimit = *raw.UI.TruncateLimit
	}
	if raw.UI.TimeFormat != "" {
		cfg.UI.TimeFormat = raw.UI.TimeFormat
	}

	// Log
	if raw.Log.Path != "" {
		cfg.Log.Path = raw.Log.Path
	}
	if raw.Log.MaxSizeMB != nil {
		cfg.Log.MaxSizeMB = *raw.Log.MaxSizeMB
	}
	if raw.Log.MaxBackups != nil {
		cfg.Log.MaxBackups = *raw.Log.MaxBackups
	}

	// Server
	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Store.Postgres.URL = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Store.SQLite.Path = v
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// StateDir returns the directory holding local preferences.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}
