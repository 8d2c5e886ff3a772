package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a JSON cache over Redis. A nil *Cache is valid and never hits.
type Cache struct {
	rdb    *redis.Client
	prefix string
}

func NewCache(address, username, password string) *Cache {
	return NewCacheWithClient(redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	}))
}

func NewCacheWithClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, prefix: "familyhub:"}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// GetJSON decodes the cached value into dst and reports whether it was present.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = c.rdb.Del(ctx, c.prefix+key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
		return err
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
