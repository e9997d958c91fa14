// Package config contains the configuration of the ordering agent.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Defaults; the flat shipping fee matches the deployed backend's rate card.
const (
	DefaultRunAddress     = "localhost:8080"
	DefaultRedisAddr      = "localhost:6379"
	DefaultShippingFee    = 10000
	DefaultRequestTimeout = 15 * time.Second
	DefaultPollInterval   = 30 * time.Second
)

// Config holds the agent's parameters. Environment variables win over flags.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	BackendURL     string        `env:"BACKEND_URL"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	StatePrefix    string        `env:"STATE_PREFIX"`
	ShippingFee    int64         `env:"ONGKIR_FLAT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	PollInterval   time.Duration `env:"POLL_INTERVAL"`
}

// Parse reads the configuration from a local .env file when present, the
// environment, and command-line flags.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envBackendURL := cfg.BackendURL
	envRedisAddr := cfg.RedisAddr
	envStatePrefix := cfg.StatePrefix
	envShippingFee := cfg.ShippingFee
	envRequestTimeout := cfg.RequestTimeout
	envPollInterval := cfg.PollInterval

	flag.StringVar(&cfg.RunAddress, "a", DefaultRunAddress, "address and port for the gateway HTTP server")
	flag.StringVar(&cfg.BackendURL, "b", "", "base URL of the order-management backend API")
	flag.StringVar(&cfg.RedisAddr, "r", DefaultRedisAddr, "redis address for persisted state")
	flag.StringVar(&cfg.StatePrefix, "p", "", "key prefix for persisted state")
	flag.Int64Var(&cfg.ShippingFee, "ongkir", DefaultShippingFee, "flat shipping fee in rupiah")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", DefaultRequestTimeout, "backend request timeout")
	flag.DurationVar(&cfg.PollInterval, "poll", DefaultPollInterval, "active-orders poll interval")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envBackendURL != "" {
		cfg.BackendURL = envBackendURL
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if envStatePrefix != "" {
		cfg.StatePrefix = envStatePrefix
	}
	if envShippingFee != 0 {
		cfg.ShippingFee = envShippingFee
	}
	if envRequestTimeout != 0 {
		cfg.RequestTimeout = envRequestTimeout
	}
	if envPollInterval != 0 {
		cfg.PollInterval = envPollInterval
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("backend URL is required (flag -b or BACKEND_URL)")
	}

	return cfg, nil
}
