package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config pre-filled with development defaults. Values are
// overridden by whatever the TOML file sets.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: slog.LevelInfo,
		},
		Web: WebConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
			AllowOrigins:    "http://localhost:3000",
		},
		DB: DBConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "recipebox",
			PoolSize: 10,
		},
		Auth: AuthConfig{
			TokenCacheSize: 1024,
			LoginRateLimit: 10,
			LoginRateWindow: time.Minute,
		},
		Storage: StorageConfig{
			Backend: "local",
			Basedir: "var/media",
		},
	}
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Web     WebConfig     `toml:"web"`
	DB      DBConfig      `toml:"db"`
	Auth    AuthConfig    `toml:"auth"`
	Storage StorageConfig `toml:"storage"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	AllowOrigins    string        `toml:"allow_origins"`
}

type DBConfig struct {
	// Driver selects the backing store: "postgres" or "sqlite".
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
	// Path is the database file for the sqlite driver.
	Path string `toml:"path"`
}

type AuthConfig struct {
	TokenCacheSize  int           `toml:"token_cache_size"`
	LoginRateLimit  int           `toml:"login_rate_limit"`
	LoginRateWindow time.Duration `toml:"login_rate_window"`
}

type StorageConfig struct {
	// Backend selects where uploaded recipe images live: "local" or "spaces".
	Backend string `toml:"backend"`
	// Basedir is the root directory for the local backend.
	Basedir string `toml:"basedir"`

	Spaces SpacesConfig `toml:"spaces"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.Database == "" {
			return fmt.Errorf("db host and database are required for the postgres driver")
		}
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("db path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.Basedir == "" {
			return fmt.Errorf("storage basedir is required for the local backend")
		}
	case "spaces":
		if c.Storage.Spaces.Key == "" || c.Storage.Spaces.Secret == "" || c.Storage.Spaces.Bucket == "" {
			return fmt.Errorf("spaces key, secret and bucket are required for the spaces backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
