// Package config loads client settings from a YAML file with an
// environment-variable overlay, so credentials can stay out of files.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/denniswong34/ccxt/exchange"
)

type Config struct {
	Logging   Logging                   `yaml:"logging"`
	Exchanges map[string]ExchangeConfig `yaml:"exchanges"`
}

type ExchangeConfig struct {
	APIKey         string            `yaml:"api_key" env:"API_KEY"`
	APISecret      string            `yaml:"api_secret" env:"API_SECRET"`
	URLs           map[string]string `yaml:"urls" env:"-"`
	RateLimitMs    int64             `yaml:"rate_limit_ms" env:"RATE_LIMIT_MS"`
	HTTPTimeoutSec int64             `yaml:"http_timeout_sec" env:"HTTP_TIMEOUT_SEC"`
	MaxTries       uint              `yaml:"max_tries" env:"MAX_TRIES"`
}

type Logging struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

func Default() Config {
	return Config{
		Logging:   Logging{Level: "info"},
		Exchanges: map[string]ExchangeConfig{},
	}
}

// Load reads a single strict YAML document and applies the environment
// overlay on top of it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("config must contain a single YAML document")
		}
		return Config{}, err
	}
	if cfg.Exchanges == nil {
		cfg.Exchanges = map[string]ExchangeConfig{}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays CCXT_<EXCHANGE>_* variables on each exchange block
// and CCXT_LOG_* on logging. Environment values replace file values.
func (c *Config) ApplyEnv() error {
	for id, ec := range c.Exchanges {
		prefix := "CCXT_" + strings.ToUpper(id) + "_"
		if err := env.ParseWithOptions(&ec, env.Options{Prefix: prefix}); err != nil {
			return fmt.Errorf("exchange %s: %w", id, err)
		}
		c.Exchanges[id] = ec
	}
	if err := env.ParseWithOptions(&c.Logging, env.Options{Prefix: "CCXT_LOG_"}); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	for id, ec := range c.Exchanges {
		ec.APIKey = strings.TrimSpace(ec.APIKey)
		ec.APISecret = strings.TrimSpace(ec.APISecret)
		c.Exchanges[id] = ec
	}
}

func (c Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	for id, ec := range c.Exchanges {
		if ec.RateLimitMs < 0 {
			return fmt.Errorf("exchange %s: rate_limit_ms must be >= 0", id)
		}
		if ec.HTTPTimeoutSec < 0 || ec.HTTPTimeoutSec > 120 {
			return fmt.Errorf("exchange %s: http_timeout_sec must be between 0 and 120", id)
		}
	}
	return nil
}

// Exchange returns the block for id, zero-valued when absent.
func (c Config) Exchange(id string) ExchangeConfig {
	return c.Exchanges[id]
}

// Options converts one exchange block to adapter options.
func (ec ExchangeConfig) Options() exchange.Options {
	return exchange.Options{
		APIKey:      ec.APIKey,
		Secret:      ec.APISecret,
		URLs:        ec.URLs,
		RateLimit:   time.Duration(ec.RateLimitMs) * time.Millisecond,
		HTTPTimeout: time.Duration(ec.HTTPTimeoutSec) * time.Second,
		MaxTries:    ec.MaxTries,
	}
}
