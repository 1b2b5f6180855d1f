// Package config loads server configuration. Values come from defaults, then
// an optional YAML file named by LINKSHELF_CONFIG, then LINKSHELF_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverSQLite   = "sqlite"

	defaultAddr       = ":8080"
	defaultSigningKey = "dev-secret-key-change-in-production"
	defaultAuditTopic = "linkshelf.audit"
)

// Config is the full server configuration.
type Config struct {
	Server  Server      `yaml:"server"`
	Log     Log         `yaml:"log"`
	Store   Store       `yaml:"store"`
	Redis   RedisConfig `yaml:"redis"`
	Audit   Audit       `yaml:"audit"`
	Session Session     `yaml:"session"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	SecureCookies   bool          `yaml:"secure_cookies"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Store selects the record store backend.
type Store struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig is only used when URL is set.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Audit sends events to Kafka when Brokers is non-empty, otherwise to the log.
// Zero breaker thresholds keep the breaker defaults.
type Audit struct {
	Brokers          []string `yaml:"brokers"`
	Topic            string   `yaml:"topic"`
	BreakerFailures  int      `yaml:"breaker_failures"`
	BreakerSuccesses int      `yaml:"breaker_successes"`
}

// Session configures the admin login and the session marker.
type Session struct {
	AdminEmail        string        `yaml:"admin_email"`
	AdminPassword     string        `yaml:"admin_password"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	SigningKey        string        `yaml:"signing_key"`
	TTL               time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            defaultAddr,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:   Log{Level: "info", Format: "json"},
		Store: Store{Driver: DriverMemory},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Audit: Audit{Topic: defaultAuditTopic},
		Session: Session{
			SigningKey: defaultSigningKey,
			TTL:        7 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(getenv("LINKSHELF_CONFIG")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = d
	}
	integer := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = n
	}
	boolean := func(key string, dst *bool) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = b
	}

	str("LINKSHELF_ADDR", &c.Server.Addr)
	boolean("LINKSHELF_SECURE_COOKIES", &c.Server.SecureCookies)
	dur("LINKSHELF_REQUEST_TIMEOUT", &c.Server.RequestTimeout)
	dur("LINKSHELF_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	str("LINKSHELF_LOG_LEVEL", &c.Log.Level)
	str("LINKSHELF_LOG_FORMAT", &c.Log.Format)

	str("LINKSHELF_STORE_DRIVER", &c.Store.Driver)
	str("LINKSHELF_STORE_DSN", &c.Store.DSN)

	str("LINKSHELF_REDIS_URL", &c.Redis.URL)

	if v := strings.TrimSpace(getenv("LINKSHELF_KAFKA_BROKERS")); v != "" {
		c.Audit.Brokers = splitList(v)
	}
	str("LINKSHELF_KAFKA_TOPIC", &c.Audit.Topic)
	integer("LINKSHELF_AUDIT_BREAKER_FAILURES", &c.Audit.BreakerFailures)
	integer("LINKSHELF_AUDIT_BREAKER_SUCCESSES", &c.Audit.BreakerSuccesses)

	str("LINKSHELF_ADMIN_EMAIL", &c.Session.AdminEmail)
	str("LINKSHELF_ADMIN_PASSWORD", &c.Session.AdminPassword)
	str("LINKSHELF_ADMIN_PASSWORD_HASH", &c.Session.AdminPasswordHash)
	str("LINKSHELF_SESSION_KEY", &c.Session.SigningKey)
	dur("LINKSHELF_SESSION_TTL", &c.Session.TTL)

	return errors.Join(errs...)
}

func (c *Config) validate() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	c.Store.Driver = strings.ToLower(c.Store.Driver)

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverPGX, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store driver %q requires LINKSHELF_STORE_DSN", c.Store.Driver)
		}
	default:
		return fmt.Errorf("invalid store driver %q (allowed: %s|%s|%s|%s)",
			c.Store.Driver, DriverMemory, DriverPostgres, DriverPGX, DriverSQLite)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q (allowed: json|text)", c.Log.Format)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Audit.BreakerFailures < 0 || c.Audit.BreakerSuccesses < 0 {
		return errors.New("audit breaker thresholds must not be negative")
	}
	if len(c.Audit.Brokers) > 0 && c.Audit.Topic == "" {
		return errors.New("kafka topic required when brokers are set")
	}
	return nil
}

// AdminConfigured reports whether a login is possible at all.
func (s Session) AdminConfigured() bool {
	return s.AdminEmail != "" && (s.AdminPassword != "" || s.AdminPasswordHash != "")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
