// Package cache is a small key/value store with a Redis implementation and
// an in-process fallback. It backs admin sessions.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aircon-store/storefront/config"
	"github.com/aircon-store/storefront/pkg/metrics"
)

// Store persists JSON-encoded values with a TTL.
type Store interface {
	// Get decodes key into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Driver() string
}

var (
	mu      sync.RWMutex
	current Store = NewMemory()
)

// Default returns the active store.
func Default() Store {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetDefault replaces the active store.
func SetDefault(s Store) {
	mu.Lock()
	current = s
	mu.Unlock()
}

// Connect switches the default store to Redis. On failure the in-memory
// store stays active and the error is returned for the caller to log.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	SetDefault(NewRedis(client))
	return nil
}

func Get(ctx context.Context, key string, dest interface{}) bool {
	return Default().Get(ctx, key, dest)
}

func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return Default().Set(ctx, key, value, ttl)
}

func Del(ctx context.Context, keys ...string) error {
	return Default().Del(ctx, keys...)
}

// ── Redis ────────────────────────────────────────────────────────────────────

type redisStore struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Driver() string { return "redis" }

func (s *redisStore) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil || json.Unmarshal(val, dest) != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

func (s *redisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// ── Memory ───────────────────────────────────────────────────────────────────

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns a process-local store. Expired entries are dropped
// lazily on read.
func NewMemory() Store {
	return &memoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *memoryStore) Driver() string { return "memory" }

func (s *memoryStore) Get(_ context.Context, key string, dest interface{}) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok || json.Unmarshal(e.data, dest) != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
	return nil
}
