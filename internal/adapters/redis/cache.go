// Package redisad adapts go-redis to the Cache port. Values are stored
// as JSON; a miss is (false, nil), not an error.
package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bank_reviews/internal/adapters/observability"
)

type Cache struct {
	rdb  *redis.Client
	name string
}

func New(addr, password string, db int) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		name: "redis",
	}
}

// NewFromClient wraps an existing client; tests use this with miniredis.
func NewFromClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, name: "redis"}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache(c.name, "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	observability.ObserveCache(c.name, "hit")
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSec) * time.Second
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return err
	}
	observability.ObserveCache(c.name, "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return err
	}
	observability.ObserveCache(c.name, "del")
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error { return c.rdb.Close() }
