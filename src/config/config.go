package config

import (
	"fmt"
	"os"
	"time"

	"token-pulse/src/models"
	"token-pulse/src/utils"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the YAML file leaves a feed field unset.
const (
	DefaultTickIntervalMs   = int(utils.DefaultTickInterval / time.Millisecond)
	DefaultHistorySize      = 300
	DefaultRetentionMinutes = 60
	DefaultMetricsNamespace = "token_pulse"
)

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

// Parse builds a validated Config from raw YAML.
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

// DefaultColumnLayout is the three-column pulse board.
func DefaultColumnLayout() []models.MColumnLayout {
	return []models.MColumnLayout{
		{Title: "New Pairs", Count: 15, StartIndex: 0},
		{Title: "Final Stretch", Count: 8, StartIndex: 100},
		{Title: "Migrated", Count: 25, StartIndex: 200},
	}
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills feed settings left empty in the file.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Feed.Source == "" {
		c.Feed.Source = "mock"
	}
	if c.Feed.TickIntervalMs == 0 {
		c.Feed.TickIntervalMs = DefaultTickIntervalMs
	}
	if c.Feed.MaxChangePct == 0 {
		c.Feed.MaxChangePct = utils.DefaultMaxChangePct
	}
	if c.Feed.HistorySize == 0 {
		c.Feed.HistorySize = DefaultHistorySize
	}
	if c.Feed.RetentionMinutes == 0 {
		c.Feed.RetentionMinutes = DefaultRetentionMinutes
	}
	if len(c.Feed.Columns) == 0 {
		c.Feed.Columns = DefaultColumnLayout()
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	// Storage
	switch c.Storage.DBType {
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

	// Network
	if c.Feed.Source == "remote" {
		if c.Network.RequestTimeout <= 0 {
			return fmt.Errorf("request timeout must be greater than 0")
		}
		if c.Network.MaxRetries < 0 {
			return fmt.Errorf("max retries cannot be negative")
		}
	}

	// Feed
	switch c.Feed.Source {
	case "mock":
	case "remote":
		if c.Feed.RemoteURL == "" {
			return fmt.Errorf("remote_url is required for the remote feed source")
		}
	default:
		return fmt.Errorf("unsupported feed source: %s", c.Feed.Source)
	}
	if c.Feed.TickIntervalMs <= 0 {
		return fmt.Errorf("tick interval must be greater than 0")
	}
	if c.Feed.MaxChangePct <= 0 || c.Feed.MaxChangePct >= 1 {
		return fmt.Errorf("max change pct must be in (0, 1), got %v", c.Feed.MaxChangePct)
	}
	if c.Feed.HistorySize <= 0 {
		return fmt.Errorf("history size must be greater than 0")
	}
	seen := make(map[string]bool)
	for i, col := range c.Feed.Columns {
		if col.Title == "" {
			return fmt.Errorf("column %d must have a title", i)
		}
		if seen[col.Title] {
			return fmt.Errorf("duplicate column title '%s'", col.Title)
		}
		seen[col.Title] = true
		if col.Count < 0 {
			return fmt.Errorf("column '%s' count cannot be negative", col.Title)
		}
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
