package database

import (
	"fmt"
	"time"
)

// Options 数据库配置选项
type Options struct {
	Driver          string        // 目前只支持 sqlite
	DSN             string        // 连接串，sqlite 为文件路径或 ":memory:"
	MaxOpenConns    int           // 最大打开连接数
	MaxIdleConns    int           // 最大空闲连接数
	ConnMaxLifetime time.Duration // 连接最大存活时间
	SlowThreshold   time.Duration // 慢查询阈值
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() Options {
	return Options{
		Driver:          "sqlite",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// Validate 验证配置
func (o Options) Validate() error {
	if o.Driver != "sqlite" {
		return fmt.Errorf("database driver %q is not supported", o.Driver)
	}
	if o.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if o.MaxOpenConns < 0 || o.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must not be negative")
	}
	return nil
}
