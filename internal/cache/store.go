package cache

import (
	"context"
	"errors"
	"time"

	"github.com/aryankumar/brogw/internal/registry"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store holds downloaded series
type Store interface {
	Get(ctx context.Context, key string) (*registry.Series, error)
	Put(ctx context.Context, key string, series *registry.Series) error
	Has(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// Entry is the stored representation of a series
type Entry struct {
	Key      string           `json:"key"`
	StoredAt time.Time        `json:"stored_at"`
	Series   *registry.Series `json:"series"`
}

// GetMany returns the cached series for keys, skipping misses.
// The result preserves the order of keys.
func GetMany(ctx context.Context, s Store, keys []string) ([]*registry.Series, []string, error) {
	var (
		found   []*registry.Series
		missing []string
	)
	for _, k := range keys {
		series, err := s.Get(ctx, k)
		if errors.Is(err, ErrCacheMiss) {
			missing = append(missing, k)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		found = append(found, series)
	}
	return found, missing, nil
}

// All returns every cached series sorted by key
func All(ctx context.Context, s Store) ([]*registry.Series, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	series, _, err := GetMany(ctx, s, keys)
	return series, err
}
