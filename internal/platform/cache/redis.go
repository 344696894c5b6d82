// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/animes/internal/platform/redis"
)

const (
	// ProviderRedis is the name of the shared Redis provider.
	ProviderRedis = "redis"

	keyPrefix        = "animes:cache:"
	operationTimeout = 2 * time.Second
	connectTimeout   = 5 * time.Second
)

func init() {
	Register(ProviderRedis, newRedisCache)
}

// redisCache stores each entry as a plain string key with a PX expiry.
// Size is not enforced; Redis' own maxmemory policy bounds the footprint.
type redisCache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return NewRedis(client, cfg.TTL, cfg.Logger), nil
}

// NewRedis wraps an already connected client.
func NewRedis(client *goredis.Client, ttl time.Duration, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{client: client, ttl: ttl, logger: logger}
}

func (cache *redisCache) logError(event string, key string, err error) {
	cache.logger.Warn(event, slog.String("key", key), slog.Any("error", err))
}

func (cache *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	value, err := cache.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			cache.logError("cache_get_failed", key, err)
		}
		return nil, false
	}
	return value, true
}

func (cache *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := cache.client.Set(ctx, keyPrefix+key, value, cache.ttl).Err(); err != nil {
		cache.logError("cache_set_failed", key, err)
	}
}

func (cache *redisCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := cache.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		cache.logError("cache_delete_failed", key, err)
	}
}

func (cache *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	count, err := cache.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		cache.logError("cache_contains_failed", key, err)
		return false
	}
	return count > 0
}

func (cache *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	size, err := cache.client.DBSize(ctx).Result()
	if err != nil {
		cache.logError("cache_len_failed", "", err)
		return 0
	}
	return int(size)
}

// Ping reports whether the backing Redis server is reachable.
func (cache *redisCache) Ping(ctx context.Context) error {
	return redis.Ping(ctx, cache.client)
}

func (cache *redisCache) Close() error {
	return cache.client.Close()
}
