// Package cache stores downloaded measurement series keyed by well key.
//
// Three backends implement Store:
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewRedisStore(redisClient, 24*time.Hour)
//
//	store := cache.NewMemoryStore()
//
//	store, err := cache.NewFileStore(filepath.Join(workspaceDir, "series"))
//
// The redis backend is used when cache.redisAddr is configured; otherwise the
// file backend keeps series in the workspace so that separate CLI invocations
// share them.
package cache
