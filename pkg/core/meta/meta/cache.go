package meta

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	r "github.com/redis/go-redis/v9"
)

const (
	cachePrefix = "chemdb:meta:"
	cacheTTL    = 5 * time.Minute
)

// listCache stores small string lists by key.
type listCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, values []string) error
	Del(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *r.Client
}

func (c *redisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	values := make([]string, 0)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false, err
	}
	return values, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cachePrefix+key, raw, cacheTTL).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, cachePrefix+k)
	}
	return c.client.Del(ctx, full...).Err()
}
