package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all relay configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Dispatch DispatchConfig `yaml:"dispatch" toml:"dispatch"`
	Breaker  BreakerConfig  `yaml:"breaker" toml:"breaker"`
	Logging  LogConfig      `yaml:"logging" toml:"logging"`
	CORS     CORSConfig     `yaml:"cors" toml:"cors"`
}

// ServerConfig holds the relay's own HTTP listener configuration.
type ServerConfig struct {
	Port            string   `envconfig:"PORT" yaml:"port" toml:"port" validate:"required,numeric"`
	Host            string   `envconfig:"HOST" yaml:"host" toml:"host"`
	MaxPayloadBytes int64    `envconfig:"MAX_PAYLOAD_BYTES" yaml:"max_payload_bytes" toml:"max_payload_bytes" validate:"gt=0"`
	ShutdownTimeout Duration `envconfig:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DispatchConfig holds outbound call policy.
type DispatchConfig struct {
	Timeout         Duration `envconfig:"DISPATCH_TIMEOUT" yaml:"timeout" toml:"timeout" validate:"gte=0"`
	FollowRedirects bool     `envconfig:"FOLLOW_REDIRECTS" yaml:"follow_redirects" toml:"follow_redirects"`
	MaxRedirects    int      `envconfig:"MAX_REDIRECTS" yaml:"max_redirects" toml:"max_redirects" validate:"gte=0"`
	MaxBodyBytes    int64    `envconfig:"MAX_BODY_BYTES" yaml:"max_body_bytes" toml:"max_body_bytes" validate:"gte=0"`
	UserAgent       string   `envconfig:"DISPATCH_USER_AGENT" yaml:"user_agent" toml:"user_agent"`
}

// BreakerConfig holds the optional per-host circuit breaker configuration.
type BreakerConfig struct {
	Enabled             bool     `envconfig:"BREAKER_ENABLED" yaml:"enabled" toml:"enabled"`
	ConsecutiveFailures uint32   `envconfig:"BREAKER_FAILURES" yaml:"consecutive_failures" toml:"consecutive_failures" validate:"required_if=Enabled true"`
	OpenTimeout         Duration `envconfig:"BREAKER_TIMEOUT" yaml:"open_timeout" toml:"open_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// CORSConfig holds cross-origin configuration for the relay endpoint.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" yaml:"allow_origins" toml:"allow_origins" validate:"min=1"`
}

// Load loads configuration from environment variables on top of defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile seeds configuration from defaults, then the file at path (YAML or
// TOML, chosen by extension; skipped when path is empty), then environment
// variables. Later sources override earlier ones field by field.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			Host:            "0.0.0.0",
			MaxPayloadBytes: 10 << 20,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Dispatch: DispatchConfig{
			Timeout:         Duration(30 * time.Second),
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodyBytes:    0,
			UserAgent:       "Relay/1.0",
		},
		Breaker: BreakerConfig{
			Enabled:             false,
			ConsecutiveFailures: 10,
			OpenTimeout:         Duration(30 * time.Second),
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
