package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Version  string         `yaml:"version"`
	GrpcHost string         `yaml:"grpc_host"`
	GrpcPort int            `yaml:"grpc_port"`
	Pool     MPoolConfig    `yaml:"pool"`
	Hub      MHubConfig     `yaml:"hub"`
	Storage  MStorageConfig `yaml:"storage"`
	Network  MNetworkConfig `yaml:"network"`
	Poller   MPollerConfig  `yaml:"poller"`
}

type MPoolConfig struct {
	Symbols             []string `yaml:"symbols"`
	ReleaseOnDisconnect bool     `yaml:"release_on_disconnect"`
	DashboardSkipDraw   bool     `yaml:"dashboard_skip_draw"`
}

type MHubConfig struct {
	MaxMessageSize     int64  `yaml:"max_message_size"`
	IdleTimeoutSeconds int    `yaml:"idle_timeout_seconds"`
	SendBuffer         int    `yaml:"send_buffer"`
	StaticDir          string `yaml:"static_dir"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	HistorySize        int    `yaml:"history_size"`
}

type MNetworkConfig struct {
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MPollerConfig struct {
	HubURL       string   `yaml:"hub_url"`
	UpstreamURL  string   `yaml:"upstream_url"`
	// FallbackURLs are mirror endpoints tried in order when UpstreamURL fails.
	FallbackURLs []string `yaml:"fallback_urls"`
	IntervalMs   int      `yaml:"interval_ms"`
	BackoffMs    int      `yaml:"backoff_ms"`
}
