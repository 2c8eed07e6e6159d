package redis

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options Redis 客户端配置选项
type Options struct {
	Addr         string        // host:port
	Username     string        // 用户名（可选）
	Password     string        // 密码（可选）
	DB           int           // 数据库编号
	PoolSize     int           // 连接池大小，0 表示使用默认值
	DialTimeout  time.Duration // 连接超时时间
	ReadTimeout  time.Duration // 读超时
	WriteTimeout time.Duration // 写超时
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() Options {
	return Options{
		Addr:         "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Validate 验证配置
func (o Options) Validate() error {
	if o.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if o.DB < 0 {
		return fmt.Errorf("redis db must not be negative")
	}
	if o.PoolSize < 0 {
		return fmt.Errorf("redis pool size must not be negative")
	}
	return nil
}

// ClientOptions 转换为 go-redis 的选项
func (o Options) ClientOptions() *redis.Options {
	return &redis.Options{
		Addr:         o.Addr,
		Username:     o.Username,
		Password:     o.Password,
		DB:           o.DB,
		PoolSize:     o.PoolSize,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
	}
}
