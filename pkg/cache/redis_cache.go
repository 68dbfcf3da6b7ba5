package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL applies when NewRedisCache is given a zero TTL.
const DefaultTTL = 5 * time.Minute

// RedisCache stores JSON values in Redis under a key namespace.
type RedisCache struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// NewRedisCache creates a Redis cache. Keys are stored as "namespace:key".
func NewRedisCache(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (r *RedisCache) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

// Get loads key into v. It returns ErrCacheMiss when the key is absent.
func (r *RedisCache) Get(ctx context.Context, key string, v any) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.Unmarshal(data, v)
}

// Set stores v under key with the cache TTL.
func (r *RedisCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, r.ttl).Err()
}

// Delete removes key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
