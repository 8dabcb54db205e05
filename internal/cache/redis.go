package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryankumar/brogw/internal/registry"
)

// KeyPrefix namespaces series entries in Redis
const KeyPrefix = "brogw:series:"

// RedisStore keeps series in Redis
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero ttl keeps entries forever.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient, ttl: ttl}
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get retrieves a series by key. Returns ErrCacheMiss if the key doesn't exist.
func (s *RedisStore) Get(ctx context.Context, key string) (*registry.Series, error) {
	data, err := s.redis.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Series == nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, key)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return entry.Series, nil
}

// Put stores a series
func (s *RedisStore) Put(ctx context.Context, key string, series *registry.Series) error {
	if series == nil {
		return fmt.Errorf("series cannot be nil")
	}

	data, err := json.Marshal(Entry{Key: key, StoredAt: time.Now().UTC(), Series: series})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, KeyPrefix+key, data, s.ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Has reports whether key is cached
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, KeyPrefix+key).Result()
	if err != nil {
		CacheErrors.WithLabelValues("exists").Inc()
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Keys lists all cached keys, sorted
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.redis.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), KeyPrefix))
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("scan").Inc()
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a cached series
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, KeyPrefix+key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
