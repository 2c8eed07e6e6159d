package mongodb

import (
	"fmt"
	"strings"
	"time"
)

// Options MongoDB 连接配置
type Options struct {
	URI            string        // mongodb:// 或 mongodb+srv:// 连接串
	Database       string        // 默认数据库
	AppName        string        // 上报给服务端的应用名（可选）
	ConnectTimeout time.Duration // 连接超时时间
	MaxPoolSize    uint64        // 最大连接数，0 表示使用驱动默认值
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() Options {
	return Options{
		URI:            "mongodb://localhost:27017",
		Database:       "catalog",
		ConnectTimeout: 10 * time.Second,
	}
}

// Validate 验证配置
func (o Options) Validate() error {
	if o.URI == "" {
		return fmt.Errorf("mongodb uri is required")
	}
	if !strings.HasPrefix(o.URI, "mongodb://") && !strings.HasPrefix(o.URI, "mongodb+srv://") {
		return fmt.Errorf("mongodb uri must start with mongodb:// or mongodb+srv://")
	}
	if o.Database == "" {
		return fmt.Errorf("mongodb database is required")
	}
	return nil
}
