package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/aryankumar/brogw/internal/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".brogw.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestManager_Load(t *testing.T) {
	tests := []struct {
		name             string
		configContent    string
		wantURL          string
		wantParallel     int
		wantJobTimeout   time.Duration
		wantPollInterval time.Duration
		wantFormat       string
		wantRedisAddr    string
		wantTTL          time.Duration
	}{
		{
			name: "full config",
			configContent: `
registry:
  url: https://bro.example.nl/api
  timeout: 10s
defaults:
  parallel: 4
  jobTimeout: 2m
  pollInterval: 500ms
  outputFormat: json
workspace:
  dir: /tmp/brogw-test
cache:
  redisAddr: localhost:6379
  redisDB: 2
  ttl: 24h
metrics:
  addr: ":9090"
`,
			wantURL:          "https://bro.example.nl/api",
			wantParallel:     4,
			wantJobTimeout:   2 * time.Minute,
			wantPollInterval: 500 * time.Millisecond,
			wantFormat:       "json",
			wantRedisAddr:    "localhost:6379",
			wantTTL:          24 * time.Hour,
		},
		{
			name: "minimal config with defaults",
			configContent: `
registry:
  url: https://bro.example.nl/api
`,
			wantURL:          "https://bro.example.nl/api",
			wantParallel:     DefaultParallel,
			wantJobTimeout:   DefaultJobTimeout,
			wantPollInterval: DefaultPollInterval,
			wantFormat:       "table",
		},
		{
			name:             "empty config",
			configContent:    "",
			wantURL:          DefaultRegistryURL,
			wantParallel:     DefaultParallel,
			wantJobTimeout:   DefaultJobTimeout,
			wantPollInterval: DefaultPollInterval,
			wantFormat:       "table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(writeConfig(t, tt.configContent))
			config, err := manager.Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config != manager.GetConfig() {
				t.Error("GetConfig should return the loaded config")
			}
			if config.Registry.URL != tt.wantURL {
				t.Errorf("got url %q, want %q", config.Registry.URL, tt.wantURL)
			}
			if config.Defaults.Parallel != tt.wantParallel {
				t.Errorf("got parallel %d, want %d", config.Defaults.Parallel, tt.wantParallel)
			}
			if config.Defaults.JobTimeout != tt.wantJobTimeout {
				t.Errorf("got job timeout %v, want %v", config.Defaults.JobTimeout, tt.wantJobTimeout)
			}
			if config.Defaults.PollInterval != tt.wantPollInterval {
				t.Errorf("got poll interval %v, want %v", config.Defaults.PollInterval, tt.wantPollInterval)
			}
			if config.Defaults.OutputFormat != tt.wantFormat {
				t.Errorf("got format %q, want %q", config.Defaults.OutputFormat, tt.wantFormat)
			}
			if config.Cache.RedisAddr != tt.wantRedisAddr {
				t.Errorf("got redis addr %q, want %q", config.Cache.RedisAddr, tt.wantRedisAddr)
			}
			if config.Cache.TTL != tt.wantTTL {
				t.Errorf("got ttl %v, want %v", config.Cache.TTL, tt.wantTTL)
			}
			if config.Registry.Timeout == 0 {
				t.Error("registry timeout should be defaulted")
			}
			if config.Workspace.Dir == "" {
				t.Error("workspace dir should be defaulted")
			}
		})
	}
}

func TestManager_LoadMissingFile(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	config, err := manager.Load()
	if err != nil {
		t.Fatalf("a missing config file should not be an error: %v", err)
	}
	if config.Defaults.Parallel != DefaultParallel {
		t.Errorf("got parallel %d, want default %d", config.Defaults.Parallel, DefaultParallel)
	}
}

func TestManager_LoadInvalidYAML(t *testing.T) {
	manager := NewManager(writeConfig(t, "registry: [unclosed"))
	if _, err := manager.Load(); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestManager_LoadInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{
			name:      "bad url scheme",
			content:   "registry:\n  url: ftp://bro.example.nl\n",
			wantField: "registry.url",
		},
		{
			name:      "negative parallel",
			content:   "defaults:\n  parallel: -2\n",
			wantField: "defaults.parallel",
		},
		{
			name:      "unknown output format",
			content:   "defaults:\n  outputFormat: csv\n",
			wantField: "defaults.outputFormat",
		},
		{
			name:      "negative ttl",
			content:   "cache:\n  ttl: -1h\n",
			wantField: "cache.ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(writeConfig(t, tt.content)).Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, util.ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig: %v", err)
			}
			var verr *util.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error should contain a ValidationError: %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("got field %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestManager_LoadEnvOverride(t *testing.T) {
	t.Setenv("BROGW_REGISTRY_URL", "https://env.example.nl")
	t.Setenv("BROGW_DEFAULTS_PARALLEL", "3")
	t.Setenv("BROGW_CACHE_REDISADDR", "redis:6379")

	config, err := NewManager(writeConfig(t, "registry:\n  url: https://file.example.nl\n")).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Registry.URL != "https://env.example.nl" {
		t.Errorf("environment should override the file, got %q", config.Registry.URL)
	}
	if config.Defaults.Parallel != 3 {
		t.Errorf("got parallel %d, want 3", config.Defaults.Parallel)
	}
	if config.Cache.RedisAddr != "redis:6379" {
		t.Errorf("got redis addr %q, want redis:6379", config.Cache.RedisAddr)
	}
}

func TestManager_WorkspacePaths(t *testing.T) {
	config, err := NewManager(writeConfig(t, "workspace:\n  dir: /data/brogw\n")).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := config.WellsDB(); got != filepath.Join("/data/brogw", "wells.db") {
		t.Errorf("WellsDB() = %q", got)
	}
	if got := config.SeriesDir(); got != filepath.Join("/data/brogw", "series") {
		t.Errorf("SeriesDir() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/brogw", filepath.Join(home, "brogw")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~other/x", "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandHome(tt.in); got != tt.want {
				t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestManager_Save(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	manager := NewManager(configPath)
	manager.Set("registry.url", "https://saved.example.nl")
	manager.Set("defaults.parallel", 12)
	manager.Set("cache.ttl", "6h")

	if err := manager.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if !strings.Contains(string(data), "https://saved.example.nl") {
		t.Errorf("saved config missing url:\n%s", data)
	}

	config, err := NewManager(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if config.Registry.URL != "https://saved.example.nl" {
		t.Errorf("got url %q", config.Registry.URL)
	}
	if config.Defaults.Parallel != 12 {
		t.Errorf("got parallel %d, want 12", config.Defaults.Parallel)
	}
	if config.Cache.TTL != 6*time.Hour {
		t.Errorf("got ttl %v, want 6h", config.Cache.TTL)
	}
}

func TestManager_BindFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("registry-url", "", "")
	fs.String("output", "", "")
	fs.Bool("no-color", false, "")
	fs.String("unrelated", "", "")

	if err := fs.Parse([]string{"--registry-url", "https://flag.example.nl", "--no-color"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	manager := NewManager(writeConfig(t, `
registry:
  url: https://file.example.nl
defaults:
  outputFormat: yaml
`))
	if err := manager.BindFlags(fs); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Registry.URL != "https://flag.example.nl" {
		t.Errorf("changed flag should win over the file, got %q", config.Registry.URL)
	}
	if config.Defaults.OutputFormat != "yaml" {
		t.Errorf("unchanged flag should not override the file, got %q", config.Defaults.OutputFormat)
	}
	if !config.Defaults.NoColor {
		t.Error("expected noColor from flag")
	}
}
