// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wink Contributors

// Package config loads Wink configuration from a YAML file and command-line
// flags. Values are threaded into components at construction time; no
// component reads process environment at call sites.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/gowink/wink/internal/auth"
	"github.com/gowink/wink/internal/link"
)

// Default configuration values.
const (
	DefaultListenAddr  = "127.0.0.1:8000"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultBaseURL     = "http://127.0.0.1:8000"
)

// Config holds all runtime configuration for the wink process.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string. The DATABASE_URL
	// environment variable is consulted when the config file and flags
	// leave it empty.
	DatabaseURL string `koanf:"database_url"`

	// ListenAddr is the HTTP listen address for the API and redirects.
	ListenAddr string `koanf:"listen_addr"`

	// MetricsAddr is the observability HTTP address (empty = disabled).
	MetricsAddr string `koanf:"metrics_addr"`

	// BaseURL is the public base for rendering short URLs.
	BaseURL string `koanf:"base_url"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	Auth  AuthConfig  `koanf:"auth"`
	Links LinksConfig `koanf:"links"`
}

// AuthConfig configures the credential hasher and session manager.
type AuthConfig struct {
	// SaltLength is the credential salt length in bytes. It must never
	// change across the lifetime of a credential dataset.
	SaltLength int `koanf:"salt_length"`

	// SessionLifetime is how long an issued session stays valid.
	SessionLifetime time.Duration `koanf:"session_lifetime"`
}

// LinksConfig configures the short-code registry.
type LinksConfig struct {
	// CodeLength is the short-code length in characters.
	CodeLength int `koanf:"code_length"`

	// MaxCodeAttempts bounds the generate-and-check loop on collision.
	MaxCodeAttempts int `koanf:"max_code_attempts"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		BaseURL:     DefaultBaseURL,
		LogFormat:   DefaultLogFormat,
		Auth: AuthConfig{
			SaltLength:      auth.DefaultSaltLength,
			SessionLifetime: auth.DefaultSessionLifetime,
		},
		Links: LinksConfig{
			CodeLength:      link.DefaultCodeLength,
			MaxCodeAttempts: link.DefaultMaxCodeAttempts,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (optional,
// empty = skipped), then the given flag set (optional, nil = skipped).
// DATABASE_URL from the environment fills DatabaseURL when nothing else set it.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	cfg := Default()
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}
	if flags != nil {
		// Flag names use dashes; koanf keys use underscores.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	if err := link.ValidateCodeLength(c.Links.CodeLength); err != nil {
		return err
	}
	if c.Auth.SaltLength < auth.MinSaltLength || c.Auth.SaltLength > auth.MaxSaltLength {
		return oops.Code("CONFIG_INVALID").
			With("salt_length", c.Auth.SaltLength).
			Errorf("auth.salt_length must be between %d and %d", auth.MinSaltLength, auth.MaxSaltLength)
	}
	if c.Auth.SessionLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("session_lifetime", c.Auth.SessionLifetime).
			Errorf("auth.session_lifetime must be positive")
	}
	return nil
}
