// Package config loads goalie settings from defaults, an optional YAML
// file, a .env file and GOALIE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GOALIE_"

type Config struct {
	Server     Server   `yaml:"server"`
	Database   Database `yaml:"database"`
	JWT        JWT      `yaml:"jwt"`
	Log        Log      `yaml:"log"`
	BcryptCost int      `yaml:"bcrypt_cost"`
}

type Server struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	Driver string `yaml:"driver"` // sqlite, mysql or postgres
	DSN    string `yaml:"dsn"`
}

type JWT struct {
	Key            string `yaml:"key"`
	Issuer         string `yaml:"issuer"`
	Audience       string `yaml:"audience"`
	ExpirationDays int    `yaml:"expiration_days"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Driver: "sqlite",
		},
		JWT: JWT{
			Issuer:         "goalie",
			Audience:       "goalie-clients",
			ExpirationDays: 7,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		BcryptCost: 10,
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// A missing .env is normal; variables already set win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		dsn, err := defaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
		cfg.Database.DSN = dsn
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", envPrefix, name, v, err)
		}
		*dst = n
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("JWT_KEY", &c.JWT.Key)
	str("JWT_ISSUER", &c.JWT.Issuer)
	str("JWT_AUDIENCE", &c.JWT.Audience)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := os.LookupEnv(envPrefix + "CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sSHUTDOWN_TIMEOUT %q: %w", envPrefix, v, err)
		}
		c.Server.ShutdownTimeout = d
	}
	if err := num("JWT_EXPIRATION_DAYS", &c.JWT.ExpirationDays); err != nil {
		return err
	}
	return num("BCRYPT_COST", &c.BcryptCost)
}

// Validate checks the settings needed to serve requests
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if len(c.JWT.Key) < 32 {
		return errors.New("jwt key must be at least 32 characters (set GOALIE_JWT_KEY)")
	}
	if c.JWT.ExpirationDays <= 0 {
		return errors.New("jwt expiration_days must be positive")
	}
	return nil
}

// ValidateDatabase checks only what local commands need to reach storage
func (c *Config) ValidateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	return nil
}

// defaultDatabasePath returns the path to the SQLite database file
func defaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".goalie", "goalie.db"), nil
}
