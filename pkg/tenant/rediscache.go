package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tenant:cache:"

// redisCache shares resolved tenants across instances through Redis.
// Lookups degrade to a cache miss on any Redis or decoding error, so a
// flaky Redis never breaks tenant resolution.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed tenant cache.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, t *Tenant, ttl time.Duration) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+key, data, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, redisKeyPrefix+key)
}

func (c *redisCache) Close() error {
	// The client is shared; its lifecycle belongs to the caller.
	return nil
}
