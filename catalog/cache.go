package catalog

import (
	"context"

	"github.com/gocrud/injector/di"
)

// NoopCache 不缓存任何内容，未配置 redis 时使用
type NoopCache struct {
	di.Component
}

func (*NoopCache) GetCategory(context.Context, string) ([]Product, bool, error) {
	return nil, false, nil
}

func (*NoopCache) SetCategory(context.Context, string, []Product) error {
	return nil
}

func (*NoopCache) Invalidate(context.Context) error {
	return nil
}
