package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
	DriverMemory   = "memory"

	// DefaultPasscode is only accepted outside production mode.
	DefaultPasscode = "1234"
)

type StoreConfig struct {
	Driver        string
	DSN           string
	SeedFile      string
	Timeout       time.Duration
	RunMigrations bool
}

type LoggerConfig struct {
	Mode     string // "development" or "production"
	Filename string // empty disables file logging
}

type AppConfig struct {
	Store      StoreConfig
	Logger     LoggerConfig
	Passcode   string
	StatusAddr string // empty disables the status server
}

// Load reads the optional .env file, then the environment. A missing .env is
// not an error; a malformed one is.
func Load(files ...string) (*AppConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from a variable lookup function.
func FromLookup(lookup func(string) (string, bool)) (*AppConfig, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	timeout, err := cast.ToDurationE(get("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	migrate, err := cast.ToBoolE(get("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("RUN_MIGRATIONS: %w", err)
	}

	cfg := &AppConfig{
		Store: StoreConfig{
			Driver:        strings.ToLower(get("STORE_DRIVER", DriverMemory)),
			DSN:           get("DATABASE_URL", ""),
			SeedFile:      get("SEED_FILE", ""),
			Timeout:       timeout,
			RunMigrations: migrate,
		},
		Logger: LoggerConfig{
			Mode:     get("LOG_MODE", "development"),
			Filename: get("LOG_FILE", ""),
		},
		Passcode:   get("ADMIN_PASSCODE", DefaultPasscode),
		StatusAddr: get("STATUS_ADDR", ""),
	}
	return cfg, cfg.Validate()
}

func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverGorm:
		if c.Store.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Timeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.Logger.Mode == "production" && c.Passcode == DefaultPasscode {
		return errors.New("ADMIN_PASSCODE must be set in production mode")
	}
	return nil
}
