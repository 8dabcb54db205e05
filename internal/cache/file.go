package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aryankumar/brogw/internal/registry"
)

const fileExt = ".json"

// FileStore keeps one JSON file per series in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted there
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt)
}

// Get retrieves a series by key
func (s *FileStore) Get(_ context.Context, key string) (*registry.Series, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Series == nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, key)
	}

	CacheHits.WithLabelValues("file").Inc()
	return entry.Series, nil
}

// Put stores a series, replacing the file atomically
func (s *FileStore) Put(_ context.Context, key string, series *registry.Series) error {
	if series == nil {
		return fmt.Errorf("series cannot be nil")
	}

	data, err := json.Marshal(Entry{Key: key, StoredAt: time.Now().UTC(), Series: series})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("creating cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Has reports whether key is cached
func (s *FileStore) Has(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking cache entry: %w", err)
	}
	return true, nil
}

// Keys lists all cached keys, sorted
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a cached series
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}
