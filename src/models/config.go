package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	GrpcHost string         `yaml:"grpc_host"`
	GrpcPort int            `yaml:"grpc_port"`
	Storage  MStorageConfig `yaml:"storage"`
	Network  MNetworkConfig `yaml:"network"`
	Feed     MFeedConfig    `yaml:"feed"`
	Metrics  MMetricsConfig `yaml:"metrics"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MFeedConfig struct {
	Source           string          `yaml:"source"` // "mock" or "remote"
	TickIntervalMs   int             `yaml:"tick_interval_ms"`
	MaxChangePct     float64         `yaml:"max_change_pct"`
	Seed             int64           `yaml:"seed"` // 0 = time based
	HistorySize      int             `yaml:"history_size"`
	RetentionMinutes int             `yaml:"retention_minutes"`
	RemoteURL        string          `yaml:"remote_url"`
	Columns          []MColumnLayout `yaml:"columns"`
}

// MColumnLayout describes how the mock generator seeds one column.
type MColumnLayout struct {
	Title      string `yaml:"title"`
	Count      int    `yaml:"count"`
	StartIndex int    `yaml:"start_index"`
}

type MMetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}
