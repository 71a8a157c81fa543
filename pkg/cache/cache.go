// Package cache is a JSON value cache with Redis and in-memory drivers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/metrics"
)

// Store is implemented by every cache driver.
type Store interface {
	// Get decodes the value under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Forget(ctx context.Context, keys ...string) error
	Driver() string
}

var (
	mu      sync.RWMutex
	current Store = NewMemoryStore()

	// RDB is the Redis client opened by Connect, shared with the queue driver.
	RDB *redis.Client
)

// Connect switches the default store to Redis. On a failed ping the
// in-memory store stays active and the error is returned.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	Use(NewRedisStore(client))
	return nil
}

// Use replaces the default store.
func Use(s Store) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// Default returns the active store.
func Default() Store {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Get(ctx context.Context, key string, dest interface{}) bool {
	return Default().Get(ctx, key, dest)
}

func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return Default().Set(ctx, key, value, ttl)
}

func Forget(ctx context.Context, keys ...string) error {
	return Default().Forget(ctx, keys...)
}

// Remember returns the cached value under key, or stores what fn loads.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() error) error {
	s := Default()
	if s.Get(ctx, key, dest) {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	return s.Set(ctx, key, dest, ttl)
}

func observe(driver string, hit bool) bool {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(driver, result).Inc()
	return hit
}

// RedisStore keeps JSON encoded values in Redis.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Driver() string { return "redis" }

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return observe("redis", false)
	}
	return observe("redis", json.Unmarshal(val, dest) == nil)
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a process-local store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (s *MemoryStore) Driver() string { return "memory" }

func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) bool {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && s.now().After(item.expiresAt)) {
		return observe("memory", false)
	}
	return observe("memory", json.Unmarshal(item.data, dest) == nil)
}

func (s *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}
