package cachedresults

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	Cache *cache.Cache[string]
}

func New(client *redis.Client, expiration time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		Cache: cache.New[string](redisStore),
	}
}

// Get decodes a cached JSON value into target, reporting whether it was found
func (c *Cache) Get(ctx context.Context, key string, target any) (bool, error) {
	cachedObject, err := c.Cache.Get(ctx, key)
	if errors.Is(err, store.NotFound{}) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(cachedObject), target); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	valueJson, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(valueJson))
}
