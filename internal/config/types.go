package config

import "time"

// BrogwConfig represents the brogw configuration file structure
type BrogwConfig struct {
	// Registry describes the BRO gateway the wells and series are fetched from
	Registry RegistryConfig `yaml:"registry,omitempty" json:"registry,omitempty" mapstructure:"registry"`

	// Defaults contains default settings for operations
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty" mapstructure:"defaults"`

	// Workspace holds the local well database and the file cache
	Workspace WorkspaceConfig `yaml:"workspace,omitempty" json:"workspace,omitempty" mapstructure:"workspace"`

	// Cache selects the series cache backend
	Cache CacheConfig `yaml:"cache,omitempty" json:"cache,omitempty" mapstructure:"cache"`

	// Metrics configures the optional Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" mapstructure:"metrics"`
}

// RegistryConfig configures the registry client
type RegistryConfig struct {
	// URL is the base URL of the gateway
	URL string `yaml:"url,omitempty" json:"url,omitempty" mapstructure:"url"`

	// Timeout bounds a single HTTP request
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Parallel is the maximum number of concurrent downloads
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty" mapstructure:"parallel"`

	// JobTimeout bounds one series download
	JobTimeout time.Duration `yaml:"jobTimeout,omitempty" json:"jobTimeout,omitempty" mapstructure:"jobTimeout"`

	// PollInterval is how often a running batch is polled for progress
	PollInterval time.Duration `yaml:"pollInterval,omitempty" json:"pollInterval,omitempty" mapstructure:"pollInterval"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}

// WorkspaceConfig locates the local workspace
type WorkspaceConfig struct {
	// Dir holds wells.db and the series/ file cache
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty" mapstructure:"dir"`
}

// CacheConfig selects the series cache. An empty RedisAddr means the file cache.
type CacheConfig struct {
	RedisAddr string        `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty" mapstructure:"redisAddr"`
	RedisDB   int           `yaml:"redisDB,omitempty" json:"redisDB,omitempty" mapstructure:"redisDB"`
	TTL       time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty" mapstructure:"ttl"`
}

// MetricsConfig configures the metrics endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty" mapstructure:"addr"`
}
