package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aryankumar/brogw/internal/util"
)

const (
	defaultConfigName = ".brogw"
	defaultConfigDir  = ".brogw"

	// DefaultRegistryURL is the gateway used when none is configured
	DefaultRegistryURL = "http://localhost:8080"

	// DefaultParallel matches the download manager's worker count
	DefaultParallel = 8

	DefaultRegistryTimeout = 30 * time.Second
	DefaultJobTimeout      = 60 * time.Second
	DefaultPollInterval    = 200 * time.Millisecond
	DefaultOutputFormat    = "table"
)

// Manager handles brogw configuration
type Manager struct {
	configPath string
	config     *BrogwConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &BrogwConfig{},
	}
}

// Load loads the brogw configuration from file and the environment
func (m *Manager) Load() (*BrogwConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.brogw/config.yaml is checked before ~/.brogw.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// BROGW_REGISTRY_URL overrides registry.url and so on
	m.viper.SetEnvPrefix("BROGW")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	m.bindEnv()

	m.config = &BrogwConfig{}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.applyDefaults(); err != nil {
		return nil, err
	}
	if err := Validate(m.config); err != nil {
		return nil, err
	}

	return m.config, nil
}

// bindEnv registers every known key so that Unmarshal sees environment values
// even when the key is absent from the file
func (m *Manager) bindEnv() {
	for _, key := range []string{
		"registry.url",
		"registry.timeout",
		"defaults.parallel",
		"defaults.jobTimeout",
		"defaults.pollInterval",
		"defaults.outputFormat",
		"defaults.noColor",
		"workspace.dir",
		"cache.redisAddr",
		"cache.redisDB",
		"cache.ttl",
		"metrics.addr",
	} {
		_ = m.viper.BindEnv(key)
	}
}

// FlagKeys maps command-line flag names to the config keys they override
var FlagKeys = map[string]string{
	"registry-url": "registry.url",
	"workspace":    "workspace.dir",
	"output":       "defaults.outputFormat",
	"no-color":     "defaults.noColor",
	"redis-addr":   "cache.redisAddr",
	"metrics-addr": "metrics.addr",
}

// BindFlags lets changed flags in fs take precedence over the environment and the file.
// Flags missing from fs are ignored.
func (m *Manager) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := m.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigDir, "config.yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Set updates a single key, for example "registry.url"
func (m *Manager) Set(key string, value any) {
	m.viper.Set(key, value)
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *BrogwConfig {
	return m.config
}

// ConfigFileUsed returns the file the configuration was read from, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// WellsDB returns the path of the workspace well database
func (c *BrogwConfig) WellsDB() string {
	return filepath.Join(c.Workspace.Dir, "wells.db")
}

// SeriesDir returns the directory of the file series cache
func (c *BrogwConfig) SeriesDir() string {
	return filepath.Join(c.Workspace.Dir, "series")
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() error {
	if m.config == nil {
		return nil
	}

	if m.config.Registry.URL == "" {
		m.config.Registry.URL = DefaultRegistryURL
	}
	if m.config.Registry.Timeout == 0 {
		m.config.Registry.Timeout = DefaultRegistryTimeout
	}

	if m.config.Defaults.Parallel == 0 {
		m.config.Defaults.Parallel = DefaultParallel
	}
	if m.config.Defaults.JobTimeout == 0 {
		m.config.Defaults.JobTimeout = DefaultJobTimeout
	}
	if m.config.Defaults.PollInterval == 0 {
		m.config.Defaults.PollInterval = DefaultPollInterval
	}
	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = DefaultOutputFormat
	}

	if m.config.Workspace.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.config.Workspace.Dir = filepath.Join(home, defaultConfigDir)
	}
	m.config.Workspace.Dir = expandHome(m.config.Workspace.Dir)

	return nil
}

// Validate checks values that defaults cannot repair
func Validate(cfg *BrogwConfig) error {
	var errs util.MultiError

	if !strings.HasPrefix(cfg.Registry.URL, "http://") && !strings.HasPrefix(cfg.Registry.URL, "https://") {
		errs.Add(util.NewValidationError("registry.url", cfg.Registry.URL, "must be an http or https URL"))
	}
	if cfg.Registry.Timeout < 0 {
		errs.Add(util.NewValidationError("registry.timeout", cfg.Registry.Timeout, "must not be negative"))
	}
	if cfg.Defaults.Parallel < 1 {
		errs.Add(util.NewValidationError("defaults.parallel", cfg.Defaults.Parallel, "must be at least 1"))
	}
	if cfg.Defaults.JobTimeout < 0 {
		errs.Add(util.NewValidationError("defaults.jobTimeout", cfg.Defaults.JobTimeout, "must not be negative"))
	}
	if cfg.Defaults.PollInterval < 0 {
		errs.Add(util.NewValidationError("defaults.pollInterval", cfg.Defaults.PollInterval, "must not be negative"))
	}
	switch cfg.Defaults.OutputFormat {
	case "table", "json", "yaml":
	default:
		errs.Add(util.NewValidationError("defaults.outputFormat", cfg.Defaults.OutputFormat, "must be table, json or yaml"))
	}
	if cfg.Cache.RedisDB < 0 {
		errs.Add(util.NewValidationError("cache.redisDB", cfg.Cache.RedisDB, "must not be negative"))
	}
	if cfg.Cache.TTL < 0 {
		errs.Add(util.NewValidationError("cache.ttl", cfg.Cache.TTL, "must not be negative"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
