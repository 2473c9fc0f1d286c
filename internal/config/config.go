// Package config loads the users-api YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all users-api configuration.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	GRPC  GRPCConfig  `yaml:"grpc"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// HTTPConfig configures the gin listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// GRPCConfig configures the gRPC listener.  mTLS is enabled when MTLS is
// set, in which case all three PEM paths are required.
type GRPCConfig struct {
	Addr     string `yaml:"addr"`
	MTLS     bool   `yaml:"mtls"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`
}

// StoreConfig selects the user store backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"` // memory, redis
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
	TLS      bool   `yaml:"tls"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		GRPC: GRPCConfig{Addr: "0.0.0.0:9090"},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr: "127.0.0.1:6379",
				Key:  "users",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults.  An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.GRPC.MTLS && (c.GRPC.CertFile == "" || c.GRPC.KeyFile == "" || c.GRPC.CAFile == "") {
		return fmt.Errorf("mtls mode requires cert_file, key_file, and ca_file")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
