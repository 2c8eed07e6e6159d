package app

import (
	"context"
	"errors"
	"sync"
)

// Hook 生命周期钩子
type Hook func(ctx context.Context) error

// Lifecycle 管理启动和停止钩子
type Lifecycle struct {
	mu      sync.Mutex
	onStart []Hook
	onStop  []Hook
	stopped bool
}

// NewLifecycle 创建新的生命周期管理器
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// OnStart 注册启动钩子
func (l *Lifecycle) OnStart(fn Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onStart = append(l.onStart, fn)
}

// OnStop 注册停止钩子，通常用于关闭资源
func (l *Lifecycle) OnStop(fn Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onStop = append(l.onStop, fn)
}

// Start 按注册顺序执行启动钩子，遇到错误立即返回
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mu.Lock()
	hooks := append([]Hook(nil), l.onStart...)
	l.mu.Unlock()

	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop 倒序执行停止钩子。某个钩子失败不影响其余钩子，所有错误合并返回。
// 重复调用不会再次执行。
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	hooks := append([]Hook(nil), l.onStop...)
	l.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
