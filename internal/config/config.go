// Package config loads service configuration from a YAML file with
// environment variable overlay.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root service configuration. Values come from an explicit
// --config path, then CONFIG_PATH, then ./local.yaml, then environment
// variables alone.
type Config struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"local"`
	HTTP   HTTPConfig   `yaml:"http"`
	Auth   AuthConfig   `yaml:"auth"`
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	Cookie CookieConfig `yaml:"cookie"`
	CSRF   CSRFConfig   `yaml:"csrf"`
}

// HTTPConfig holds network settings for the HTTP server.
type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Addr returns the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig holds token issuance parameters. The two signing secrets must
// differ; the token manager rejects equal secrets at startup.
type AuthConfig struct {
	AccessSecret  string        `yaml:"access_secret" env:"AUTH_ACCESS_SECRET" env-required:"true"`
	RefreshSecret string        `yaml:"refresh_secret" env:"AUTH_REFRESH_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"AUTH_REFRESH_TTL" env-default:"168h"`
}

// DBConfig holds database connection and pool settings. ConnectTimeout
// bounds dialing a fresh connection; AcquireTimeout bounds waiting for a
// free one when the pool is exhausted.
type DBConfig struct {
	URL            string        `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	MinConns       int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
	MaxConns       int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" env:"DB_ACQUIRE_TIMEOUT" env-default:"5s"`
	MaxConnIdle    time.Duration `yaml:"max_conn_idle" env:"DB_MAX_CONN_IDLE" env-default:"5m"`
}

// RedisConfig holds cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL string        `yaml:"url" env:"REDIS_URL" env-default:""`
	TTL time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

// CookieConfig controls the auth cookie attributes. Secure should be on
// everywhere except local development.
type CookieConfig struct {
	Domain string `yaml:"domain" env:"COOKIE_DOMAIN" env-default:""`
	Secure bool   `yaml:"secure" env:"COOKIE_SECURE" env-default:"false"`
}

// CSRFConfig controls the double-submit guard. SkipPaths lists endpoints
// exempt from the check: health probes plus the entry points a client hits
// before it holds any cookies.
type CSRFConfig struct {
	SkipPaths []string `yaml:"skip_paths" env:"CSRF_SKIP_PATHS" env-separator:"," env-default:"/health,/api/auth/register,/api/auth/login"`
}

// Load resolves the config path in priority order and reads it.
func Load(path string) (*Config, error) {
	var cfg Config

	read := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Env overlays file values.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("overlay env: %w", err)
		}
		return &cfg, nil
	}

	if path != "" {
		return read(path)
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return read(envPath)
	}
	if _, err := os.Stat("local.yaml"); err == nil {
		return read("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the token layer would refuse anyway,
// with a clearer startup error.
func (c *Config) Validate() error {
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("auth.access_secret and auth.refresh_secret must differ")
	}
	return nil
}
