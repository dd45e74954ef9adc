package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheHelper provides common caching operations for repositories
type CacheHelper struct {
	client *redis.Client
	prefix string
}

// NewCacheHelper creates a new cache helper instance
func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: prefix,
	}
}

// CacheConfig defines cache configuration for different data types
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// Profiles change rarely and are invalidated on update
	ProfileCacheConfig = CacheConfig{
		TTL:    10 * time.Minute,
		Prefix: "profile:",
	}

	// Identities mirrored from the identity provider
	UserCacheConfig = CacheConfig{
		TTL:    15 * time.Minute,
		Prefix: "user:",
	}

	// Connection edges and reaction tallies, invalidated on every mutation
	StatsCacheConfig = CacheConfig{
		TTL:    2 * time.Minute,
		Prefix: "stats:",
	}

	// Very short cache for existence checks
	ExistsCacheConfig = CacheConfig{
		TTL:    1 * time.Minute,
		Prefix: "exists:",
	}
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// GetCacheKey generates a cache key with prefix
func (c *CacheHelper) GetCacheKey(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// Available reports whether a Redis client is configured
func (c *CacheHelper) Available() bool {
	return c != nil && c.client != nil
}

// Get retrieves and unmarshals data from cache
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Available() {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Available() {
		return nil // Graceful degradation when cache not available
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.GetCacheKey(key), data, ttl).Err()
}

// Delete removes keys from cache and bumps their generation so that a fetch
// started before the delete does not write its result back
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if !c.Available() || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, cacheKeys...)
	for _, key := range keys {
		genKey := c.generationKey(key)
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Exists checks if a key exists in cache
func (c *CacheHelper) Exists(ctx context.Context, key string) (bool, error) {
	if !c.Available() {
		return false, ErrCacheNotAvailable
	}

	count, err := c.client.Exists(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return count > 0, nil
}

// CacheOrExecute implements the cache-aside pattern. A cache failure never
// fails the call. The fetched value is written back unless the key was
// deleted while the fetch was running.
func (c *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetchFunc func() (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheNotAvailable) {
		slog.InfoContext(ctx, "Cache get error, proceeding to fetch", "error", err, "key", key)
	}

	generation, genErr := c.generation(ctx, key)

	value, err := fetchFunc()
	if err != nil {
		return fmt.Errorf("fetch function error: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result error: %w", err)
	}

	if c.Available() && genErr == nil {
		// Detached so a cancelled request still leaves a warm cache behind
		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		if err := c.setIfGeneration(setCtx, key, generation, data, ttl); err != nil && !errors.Is(err, errStaleGeneration) {
			slog.ErrorContext(ctx, "Cache set error", "error", err, "key", key)
		}
		cancel()
	}

	return json.Unmarshal(data, dest)
}

const generationTTL = 10 * time.Minute

var errStaleGeneration = errors.New("cache key invalidated during fetch")

func (c *CacheHelper) generationKey(key string) string {
	return fmt.Sprintf("%sgen:%s", c.prefix, key)
}

func (c *CacheHelper) generation(ctx context.Context, key string) (int64, error) {
	if !c.Available() {
		return 0, ErrCacheNotAvailable
	}
	n, err := c.client.Get(ctx, c.generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// setIfGeneration stores data only while the generation still equals want
func (c *CacheHelper) setIfGeneration(ctx context.Context, key string, want int64, data []byte, ttl time.Duration) error {
	genKey := c.generationKey(key)
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != want {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.GetCacheKey(key), data, ttl)
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			return errStaleGeneration
		}
		return err
	}, genKey)
}

// CacheManager manages the cache helpers used across repositories
type CacheManager struct {
	client *redis.Client

	Profile *CacheHelper
	User    *CacheHelper
	Stats   *CacheHelper
	Exists  *CacheHelper
}

// NewCacheManager creates cache manager with all cache helpers. A nil client
// yields helpers that always miss.
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		client:  client,
		Profile: NewCacheHelper(client, ProfileCacheConfig.Prefix),
		User:    NewCacheHelper(client, UserCacheConfig.Prefix),
		Stats:   NewCacheHelper(client, StatsCacheConfig.Prefix),
		Exists:  NewCacheHelper(client, ExistsCacheConfig.Prefix),
	}
}

// HealthCheck verifies cache connectivity
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.client == nil {
		return ErrCacheNotAvailable
	}

	if err := cm.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}
