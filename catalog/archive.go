package catalog

import (
	"context"
	"sync"

	"github.com/gocrud/injector/di"
)

// NoopArchive 只在内存中保留最近一次报告，未配置 MongoDB 时使用
type NoopArchive struct {
	di.Component
	mu     sync.RWMutex
	latest *ImportReport
}

func (a *NoopArchive) Record(_ context.Context, report ImportReport) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latest = &report
	return nil
}

func (a *NoopArchive) Latest(context.Context) (ImportReport, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return ImportReport{}, false, nil
	}
	return *a.latest, true, nil
}
