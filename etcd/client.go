package etcd

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// ClientConfig 把 Options 转换为 clientv3.Config
func ClientConfig(opts Options) clientv3.Config {
	config := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}

	if opts.Username != "" {
		config.Username = opts.Username
		config.Password = opts.Password
	}
	if opts.AutoSyncInterval > 0 {
		config.AutoSyncInterval = opts.AutoSyncInterval
	}
	if opts.MaxCallSendMsgSize > 0 {
		config.MaxCallSendMsgSize = opts.MaxCallSendMsgSize
	}
	if opts.MaxCallRecvMsgSize > 0 {
		config.MaxCallRecvMsgSize = opts.MaxCallRecvMsgSize
	}
	return config
}

// Open 校验配置并创建 etcd 客户端，调用方负责 Close
func Open(opts Options) (*clientv3.Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	client, err := clientv3.New(ClientConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	return client, nil
}

// KeyValue 前缀查询的结果
type KeyValue struct {
	Key   string
	Value []byte
}

// GetPrefix 读取 prefix 下的所有键值
func GetPrefix(ctx context.Context, client *clientv3.Client, prefix string) ([]KeyValue, error) {
	resp, err := client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("etcd get %q: %w", prefix, err)
	}

	result := make([]KeyValue, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		result = append(result, KeyValue{Key: string(kv.Key), Value: kv.Value})
	}
	return result, nil
}
