package redis

import (
	"context"
	"fmt"

	"github.com/gocrud/injector/logging"
	"github.com/redis/go-redis/v9"
)

// Open 创建客户端并 PING 一次，失败时关闭客户端
func Open(ctx context.Context, opts Options, logger logging.Logger) (*redis.Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(opts.ClientOptions())
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis %s: %w", opts.Addr, err)
	}

	if logger != nil {
		logger.Info("Redis client connected",
			logging.Field{Key: "addr", Value: opts.Addr},
			logging.Field{Key: "db", Value: opts.DB})
	}
	return client, nil
}
