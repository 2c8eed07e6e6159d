package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocrud/injector/di"
	"github.com/redis/go-redis/v9"
)

// RedisCache 把类别查询结果以 JSON 存在 redis 中
type RedisCache struct {
	di.Component
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache 创建缓存，键为 prefix + "category:" + 类别
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "catalog:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(category string) string {
	return c.prefix + "category:" + category
}

func (c *RedisCache) GetCategory(ctx context.Context, category string) ([]Product, bool, error) {
	data, err := c.client.Get(ctx, c.key(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalog: cache get: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("catalog: cache decode: %w", err)
	}
	return products, true, nil
}

func (c *RedisCache) SetCategory(ctx context.Context, category string, products []Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("catalog: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(category), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog: cache set: %w", err)
	}
	return nil
}

// Invalidate 删除所有类别键
func (c *RedisCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"category:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("catalog: cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("catalog: cache invalidate: %w", err)
	}
	return nil
}
