package config

import (
	"fmt"

	"github.com/marcus/notepadzone/internal/notes"
)

// Backend names accepted in store.backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// SQLite driver names. "sqlite3" is the cgo driver, "sqlite" the pure Go one.
const (
	DriverCgo    = "sqlite3"
	DriverPureGo = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	Store  StoreConfig  `json:"store"`
	UI     UIConfig     `json:"ui"`
	Log    LogConfig    `json:"log"`
	Server ServerConfig `json:"server"`
}

// StoreConfig selects and configures the note collection backend.
type StoreConfig struct {
	Backend  string         `json:"backend"` // "sqlite", "postgres" or "redis"
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
}

// SQLiteConfig configures the local SQLite collection.
type SQLiteConfig struct {
	Path   string `json:"path"`
	Driver string `json:"driver"`
}

// PostgresConfig configures the hosted Postgres collection.
type PostgresConfig struct {
	URL      string `json:"url"`
	MinConns int32  `json:"minConns"`
	MaxConns int32  `json:"maxConns"`
}

// RedisConfig configures the Redis collection.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"` // key namespace, e.g. "notepadzone"
}

// UIConfig configures how notes are displayed.
type UIConfig struct {
	TruncateLimit int    `json:"truncateLimit"`
	TimeFormat    string `json:"timeFormat"` // Go time layout
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
			SQLite: SQLiteConfig{
				Path:   "~/.local/share/notepadzone/notes.db",
				Driver: DriverCgo,
			},
			Postgres: PostgresConfig{
				MinConns: 1,
				MaxConns: 4,
			},
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "notepadzone",
			},
		},
		UI: UIConfig{
			TruncateLimit: notes.DefaultTruncateLimit,
			TimeFormat:    notes.DefaultTimeLayout,
		},
		Log: LogConfig{
			Path:       "~/.local/state/notepadzone/notepadzone.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate checks the configuration for errors, resetting out-of-range
// values to their defaults.
func (c *Config) Validate() error {
	def := Default()

	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required")
		}
		switch c.Store.SQLite.Driver {
		case DriverCgo, DriverPureGo:
		case "":
			c.Store.SQLite.Driver = def.Store.SQLite.Driver
		default:
			return fmt.Errorf("unknown sqlite driver %q", c.Store.SQLite.Driver)
		}
	case BackendPostgres:
		if c.Store.Postgres.URL == "" {
			return fmt.Errorf("store.postgres.url is required for the postgres backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Store.Postgres.MinConns < 0 {
		c.Store.Postgres.MinConns = def.Store.Postgres.MinConns
	}
	if c.Store.Postgres.MaxConns <= 0 {
		c.Store.Postgres.MaxConns = def.Store.Postgres.MaxConns
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = def.Store.Redis.Prefix
	}
	if c.UI.TruncateLimit <= 0 {
		c.UI.TruncateLimit = def.UI.TruncateLimit
	}
	if c.UI.TimeFormat == "" {
		c.UI.TimeFormat = def.UI.TimeFormat
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = def.Log.MaxBackups
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	return nil
}
