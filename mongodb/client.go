package mongodb

import (
	"context"
	"fmt"

	"github.com/gocrud/injector/logging"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ClientOptions 转换为驱动的客户端选项
func ClientOptions(opts Options) *options.ClientOptions {
	co := options.Client().ApplyURI(opts.URI)
	if opts.ConnectTimeout > 0 {
		co.SetConnectTimeout(opts.ConnectTimeout)
		co.SetServerSelectionTimeout(opts.ConnectTimeout)
	}
	if opts.AppName != "" {
		co.SetAppName(opts.AppName)
	}
	if opts.MaxPoolSize > 0 {
		co.SetMaxPoolSize(opts.MaxPoolSize)
	}
	return co
}

// Connect 连接 MongoDB 并 Ping 主节点，返回客户端和默认数据库
func Connect(ctx context.Context, opts Options, logger logging.Logger) (*mongo.Client, *mongo.Database, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := mongo.Connect(ClientOptions(opts))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if logger != nil {
		logger.Info("MongoDB connected", logging.Field{Key: "database", Value: opts.Database})
	}
	return client, client.Database(opts.Database), nil
}
