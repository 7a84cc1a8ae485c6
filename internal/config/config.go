// Package config reads server settings from flags, falling back to environment variables.
// A .env file in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Driver selects the database/sql driver behind GORM: "pgx" or "postgres" (lib/pq).
	Driver string
}

// DSN renders the key/value connection string understood by both drivers.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Twilio struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether every Twilio credential is present.
func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type Config struct {
	Port    int
	GinMode string

	Database Database
	Redis    Redis
	Twilio   Twilio

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	// Requests per second and burst allowed per client on the auth routes.
	AuthRateLimit float64
	AuthRateBurst int
}

// Load parses args, then fills anything left unset from the environment and defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("civic-polls", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Database.Driver, "db-driver", "", "SQL driver: pgx or postgres")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if cfg.Port == 0 {
		if cfg.Port, err = envInt("PORT", 8080); err != nil {
			return nil, err
		}
	}
	cfg.GinMode = envString("GIN_MODE", "debug")

	cfg.Database.Host = os.Getenv("DB_HOST")
	cfg.Database.Port = envString("DB_PORT", "5432")
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = envString("DB_SSLMODE", "disable")
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = envString("DB_DRIVER", "pgx")
	}
	if cfg.Database.Driver != "pgx" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want pgx or postgres)", cfg.Database.Driver)
	}

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Twilio.FromNumber = os.Getenv("TWILIO_FROM_NUMBER")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.SessionTTL == 0 {
		if cfg.SessionTTL, err = envDuration("SESSION_TTL", 3*time.Hour); err != nil {
			return nil, err
		}
	}
	if cfg.CookieSecure, err = envBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	if cfg.AuthRateLimit, err = envFloat("AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.AuthRateBurst, err = envInt("AUTH_RATE_BURST", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("DB_HOST and DB_NAME required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}
