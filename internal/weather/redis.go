package weather

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "weather:"

// RedisCache stores weather reports in Redis with the TTL enforced by key
// expiry, so multiple chat server instances share one cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache connects to the Redis instance named by url
// (redis://host:port/db) and verifies the connection.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached payload for city; expiry is handled by Redis.
func (c *RedisCache) Get(ctx context.Context, city string) (string, bool, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+cacheKey(city)).Result()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	c.hits.Add(1)
	return payload, true, nil
}

// Set stores a payload for city with the cache TTL as key expiry.
func (c *RedisCache) Set(ctx context.Context, city, payload string) error {
	if err := c.client.Set(ctx, redisKeyPrefix+cacheKey(city), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Stats returns process-local hit/miss counters and the live key count.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	keys, err := c.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return Stats{}, fmt.Errorf("redis keys: %w", err)
	}
	hits := c.hits.Load()
	misses := c.misses.Load()
	return Stats{
		Hits:           hits,
		Misses:         misses,
		Size:           int64(len(keys)),
		HitRatePercent: hitRate(hits, misses),
	}, nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
