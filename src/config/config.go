package config

import (
	"fmt"
	"net/url"
	"os"

	"price-relay/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

const (
	DefaultMaxMessageSize = 2 << 20 // 2 MiB, matches the continuation cap of the original hub
	DefaultSendBuffer     = 256
	DefaultHistorySize    = 500
	DefaultIntervalMs     = 1000
	DefaultBackoffMs      = 1000
	DefaultHubURL         = "ws://127.0.0.1:8080/ws"
	DefaultUpstreamURL    = "https://api.binance.com/api/v3/ticker/price"
)

// DefaultSymbols seeds the work pool when the config file lists none.
var DefaultSymbols = []string{"BTCUSDT", "ETHUSDT"}

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a Config from raw YAML, applying defaults before validation.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Default returns a validated configuration without reading any file.
func Default() *Config {
	config := &Config{MConfig: &models.MConfig{}}
	config.ApplyDefaults()
	return config
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills every unset field with its built-in value.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "price-relay"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if len(c.Pool.Symbols) == 0 {
		c.Pool.Symbols = append([]string(nil), DefaultSymbols...)
	}

	if c.Hub.MaxMessageSize == 0 {
		c.Hub.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Hub.SendBuffer == 0 {
		c.Hub.SendBuffer = DefaultSendBuffer
	}

	if c.Storage.DBType == "" {
		c.Storage.DBType = "memory"
	}
	if c.Storage.HistorySize == 0 {
		c.Storage.HistorySize = DefaultHistorySize
	}

	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 5
	}

	if c.Poller.HubURL == "" {
		c.Poller.HubURL = DefaultHubURL
	}
	if c.Poller.UpstreamURL == "" {
		c.Poller.UpstreamURL = DefaultUpstreamURL
	}
	if c.Poller.IntervalMs == 0 {
		c.Poller.IntervalMs = DefaultIntervalMs
	}
	if c.Poller.BackoffMs == 0 {
		c.Poller.BackoffMs = DefaultBackoffMs
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARNING", "ERROR":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	// Server
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	// Pool
	seen := make(map[string]struct{}, len(c.Pool.Symbols))
	for i, sym := range c.Pool.Symbols {
		if sym == "" {
			return fmt.Errorf("pool symbol %d cannot be empty", i)
		}
		if _, dup := seen[sym]; dup {
			return fmt.Errorf("pool symbol '%s' listed twice", sym)
		}
		seen[sym] = struct{}{}
	}

	// Hub
	if c.Hub.MaxMessageSize < 0 {
		return fmt.Errorf("max message size cannot be negative")
	}
	if c.Hub.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idle timeout cannot be negative")
	}
	if c.Hub.SendBuffer <= 0 {
		return fmt.Errorf("send buffer must be greater than 0")
	}

	// Storage
	switch c.Storage.DBType {
	case "memory":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}
	if c.Storage.HistorySize <= 0 {
		return fmt.Errorf("history size must be greater than 0")
	}

	// Network
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Poller
	hubURL, err := url.Parse(c.Poller.HubURL)
	if err != nil || (hubURL.Scheme != "ws" && hubURL.Scheme != "wss") {
		return fmt.Errorf("poller hub url must be a ws:// or wss:// url: %q", c.Poller.HubURL)
	}
	if _, err := url.Parse(c.Poller.UpstreamURL); err != nil {
		return fmt.Errorf("invalid upstream url: %w", err)
	}
	for _, fallback := range c.Poller.FallbackURLs {
		if u, err := url.Parse(fallback); err != nil || u.Host == "" {
			return fmt.Errorf("invalid fallback url: %q", fallback)
		}
	}
	if c.Poller.IntervalMs <= 0 {
		return fmt.Errorf("poll interval must be greater than 0")
	}
	if c.Poller.BackoffMs <= 0 {
		return fmt.Errorf("reconnect backoff must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
