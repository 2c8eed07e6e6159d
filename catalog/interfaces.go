package catalog

import (
	"context"
)

// FileReader 读取商品文件的所有行
type FileReader interface {
	ReadLines(ctx context.Context) ([]string, error)
}

// ProductParser 把一行文本解析为经过校验的商品
type ProductParser interface {
	Parse(line string) (Product, error)
}

// ProductStore 商品存储
type ProductStore interface {
	// Replace 用 products 整体替换已有数据
	Replace(ctx context.Context, products []Product) error
	ByCategory(ctx context.Context, category string) ([]Product, error)
	// Get 不存在时返回 ErrNotFound
	Get(ctx context.Context, id string) (Product, error)
	Count(ctx context.Context) (int64, error)
}

// ProductCache 按类别缓存查询结果
type ProductCache interface {
	GetCategory(ctx context.Context, category string) ([]Product, bool, error)
	SetCategory(ctx context.Context, category string, products []Product) error
	Invalidate(ctx context.Context) error
}

// ImportArchive 保存导入报告
type ImportArchive interface {
	Record(ctx context.Context, report ImportReport) error
	// Latest 返回最近一次导入，没有记录时 ok 为 false
	Latest(ctx context.Context) (report ImportReport, ok bool, err error)
}

// ProductService 商品业务服务
type ProductService interface {
	GetAllFromCategory(ctx context.Context, category string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Import(ctx context.Context) (ImportResult, error)
}

// Importer 执行导入并归档报告，cron 和 HTTP 共用
type Importer interface {
	Run(ctx context.Context, trigger string) (ImportReport, error)
	Last(ctx context.Context) (ImportReport, bool, error)
}
