package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"table-booking-backend/internal/booking"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Booking    BookingConfig    `yaml:"booking"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" env:"BOOKING_SERVER_PORT"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec" env:"BOOKING_RATE_LIMIT_PER_SEC"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" env:"BOOKING_RATE_LIMIT_BURST"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds" env:"BOOKING_CACHE_TTL_SECONDS"`
	CacheTTL        time.Duration `yaml:"-"`
}

// BookingConfig holds the room allow-list and the rooms loaded at startup.
type BookingConfig struct {
	AllowedRooms []string       `yaml:"allowed_rooms"`
	Seed         []booking.Room `yaml:"seed"`
}

// DatabaseConfig holds the booking journal database configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" env:"BOOKING_DB_DRIVER"`
	DSN                    string `yaml:"dsn" env:"BOOKING_DB_DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for staff web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" env:"BOOKING_VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" env:"BOOKING_VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject" env:"BOOKING_VAPID_SUBJECT"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are set.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size" env:"BOOKING_WORKER_POOL_SIZE"`
}

// LogConfig selects the zap logger setup.
type LogConfig struct {
	Level  string `yaml:"level" env:"BOOKING_LOG_LEVEL"`
	Format string `yaml:"format" env:"BOOKING_LOG_FORMAT"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads the configuration from the given path, applies BOOKING_*
// environment overrides and fills in defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides file values with BOOKING_* variables. Sections are
// parsed one by one so the seed rooms are never touched.
func (cfg *Config) applyEnv() error {
	sections := []any{&cfg.Server, &cfg.Database, &cfg.Push, &cfg.WorkerPool, &cfg.Log}
	for _, section := range sections {
		if err := env.Parse(section); err != nil {
			return err
		}
	}

	rooms, err := env.ParseAs[struct {
		AllowedRooms []string `env:"BOOKING_ALLOWED_ROOMS" envSeparator:","`
	}]()
	if err != nil {
		return err
	}
	if len(rooms.AllowedRooms) > 0 {
		cfg.Booking.AllowedRooms = rooms.AllowedRooms
	}
	return nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if len(cfg.Booking.AllowedRooms) == 0 {
		cfg.Booking.AllowedRooms = append([]string(nil), booking.DefaultRooms...)
	}

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = DriverSQLite
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		if cfg.Database.Driver != DriverSQLite {
			return fmt.Errorf("database.dsn is required for driver %q", cfg.Database.Driver)
		}
		cfg.Database.DSN = "file::memory:?cache=shared"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	return nil
}
