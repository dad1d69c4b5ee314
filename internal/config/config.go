package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultJWTSecret is used when JWT_SECRET is unset. It is public, so any
	// deployment running on it accepts forged tokens.
	DefaultJWTSecret = "fallback-secret-key"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var (
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")
	ErrInvalidExpiry       = errors.New("invalid JWT_EXPIRES_IN")
	ErrInvalidCost         = errors.New("BCRYPT_SALT_ROUNDS out of range")
)

type Config struct {
	Port        string
	Env         string
	JWT         JWTConfig
	Bcrypt      BcryptConfig
	DatabaseURL string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type BcryptConfig struct {
	Cost int
}

// IsDevelopment reports whether stack traces and raw errors may be exposed.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// environment mirrors the variables one-to-one; Load reshapes it into Config.
type environment struct {
	Port         string `envconfig:"PORT" default:"3000"`
	Env          string `envconfig:"ENV" default:"development"`
	JWTSecret    string `envconfig:"JWT_SECRET"`
	JWTExpiresIn expiry `envconfig:"JWT_EXPIRES_IN" default:"7d"`
	BcryptCost   int    `envconfig:"BCRYPT_SALT_ROUNDS" default:"12"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
}

// Load reads the configuration from the environment. A missing JWT_SECRET is
// only warned about; a missing DATABASE_URL is returned as
// ErrDatabaseURLRequired and callers are expected to stop.
func Load() (Config, error) {
	var s environment
	if err := envconfig.Process("", &s); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	if s.JWTSecret == "" {
		slog.Warn("JWT_SECRET not found in environment variables, using insecure default")
		s.JWTSecret = DefaultJWTSecret
	}

	if s.DatabaseURL == "" {
		return Config{}, ErrDatabaseURLRequired
	}

	if s.BcryptCost < bcrypt.MinCost || s.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidCost, s.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return Config{
		Port: s.Port,
		Env:  s.Env,
		JWT: JWTConfig{
			Secret: s.JWTSecret,
			Expiry: time.Duration(s.JWTExpiresIn),
		},
		Bcrypt:      BcryptConfig{Cost: s.BcryptCost},
		DatabaseURL: s.DatabaseURL,
	}, nil
}

// expiry lets envconfig decode JWT_EXPIRES_IN through ParseExpiry.
type expiry time.Duration

func (e *expiry) Decode(value string) error {
	d, err := ParseExpiry(value)
	if err != nil {
		return err
	}
	*e = expiry(d)
	return nil
}

// ParseExpiry accepts Go durations ("15m", "168h"), a day count ("7d") or a
// bare number of seconds ("3600").
func ParseExpiry(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidExpiry
	}

	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidExpiry, value)
		}
		return time.Duration(secs) * time.Second, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidExpiry, value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiry, value)
	}
	return d, nil
}
