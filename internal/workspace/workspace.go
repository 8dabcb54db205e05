// Package workspace opens the local state a brogw command works on: the well
// database, the series cache and the registry client, all derived from one config.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryankumar/brogw/internal/cache"
	"github.com/aryankumar/brogw/internal/config"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/util"
	"github.com/aryankumar/brogw/internal/wellstore"
	"github.com/aryankumar/brogw/pkg/version"
)

const redisPingTimeout = 3 * time.Second

type configKey struct{}

// WithConfig attaches a loaded configuration to ctx
func WithConfig(ctx context.Context, cfg *config.BrogwConfig) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the configuration attached by WithConfig
func ConfigFrom(ctx context.Context) (*config.BrogwConfig, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: no configuration loaded", util.ErrInvalidConfig)
	}
	cfg, ok := ctx.Value(configKey{}).(*config.BrogwConfig)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("%w: no configuration loaded", util.ErrInvalidConfig)
	}
	return cfg, nil
}

// Workspace bundles the resources of one command invocation
type Workspace struct {
	Config   *config.BrogwConfig
	Wells    *wellstore.Store
	Cache    cache.Store
	Registry *registry.Client

	// CacheBackend is "redis" or "file"
	CacheBackend string

	logger  *slog.Logger
	closers []func() error
}

// Open creates the workspace directory if needed and opens everything in it
func Open(ctx context.Context, cfg *config.BrogwConfig, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.Workspace.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	ws := &Workspace{Config: cfg, logger: logger}

	client, err := registry.NewClient(cfg.Registry.URL,
		registry.WithTimeout(cfg.Registry.Timeout),
		registry.WithUserAgent(version.UserAgent()),
		registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	ws.Registry = client

	wells, err := wellstore.Open(ctx, cfg.WellsDB(), logger)
	if err != nil {
		return nil, err
	}
	ws.Wells = wells
	ws.closers = append(ws.closers, wells.Close)

	if err := ws.openCache(ctx); err != nil {
		_ = ws.Close()
		return nil, err
	}

	logger.Debug("workspace opened",
		"dir", cfg.Workspace.Dir,
		"registry", client.BaseURL(),
		"cache", ws.CacheBackend)

	return ws, nil
}

// openCache selects Redis when an address is configured and the file cache otherwise
func (ws *Workspace) openCache(ctx context.Context) error {
	cfg := ws.Config.Cache
	if cfg.RedisAddr == "" {
		store, err := cache.NewFileStore(ws.Config.SeriesDir())
		if err != nil {
			return err
		}
		ws.Cache = store
		ws.CacheBackend = "file"
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	store := cache.NewRedisStore(rdb, cfg.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("%w: redis at %s: %w", util.ErrConnectionFailed, cfg.RedisAddr, err)
	}

	ws.Cache = store
	ws.CacheBackend = "redis"
	ws.closers = append(ws.closers, rdb.Close)
	return nil
}

// RequireWells fails with util.ErrNoWorkspace when no wells were retrieved yet
func (ws *Workspace) RequireWells(ctx context.Context) error {
	n, err := ws.Wells.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNoWorkspace
	}
	return nil
}

// Close releases everything Open acquired
func (ws *Workspace) Close() error {
	var errs []error
	for i := len(ws.closers) - 1; i >= 0; i-- {
		if err := ws.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	ws.closers = nil
	return util.CombineErrors(errs...)
}
