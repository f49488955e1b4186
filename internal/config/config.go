// Package config loads service settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	JWTSecret    string `yaml:"jwt_secret"` // base64-encoded HMAC key
	BcryptCost   int    `yaml:"bcrypt_cost"`
	LogLevel     string `yaml:"log_level"`
	Login        Login  `yaml:"login"`
}

// Login tunes the per-client limiter on the credential endpoints.
type Login struct {
	RatePerMinute int `yaml:"rate_per_minute"`
	Burst         int `yaml:"burst"`
}

// Default returns the settings used when neither file nor environment
// says otherwise. It has no JWT secret.
func Default() Config {
	return Config{
		Port:         "8080",
		DatabasePath: "finledger.db",
		BcryptCost:   12,
		LogLevel:     "info",
		Login:        Login{RatePerMinute: 10, Burst: 5},
	}
}

// Load reads the file named by CONFIG_FILE, if set, over the defaults and
// then applies environment overrides.
func Load() (Config, error) {
	c := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.LogLevel, "LOG_LEVEL")

	for key, dst := range map[string]*int{
		"BCRYPT_COST":           &c.BcryptCost,
		"LOGIN_RATE_PER_MINUTE": &c.Login.RatePerMinute,
		"LOGIN_BURST":           &c.Login.Burst,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.Login.RatePerMinute < 1 {
		errs = append(errs, fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive, got %d", c.Login.RatePerMinute))
	}
	if c.Login.Burst < 1 {
		errs = append(errs, fmt.Errorf("LOGIN_BURST must be positive, got %d", c.Login.Burst))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return l, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
