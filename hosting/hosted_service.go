package hosting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/injector/logging"
)

// HostedService 托管服务接口（类似于 .NET Core IHostedService）
// 框架会自动在 goroutine 中调用 Start，用户无需自己启动 goroutine
type HostedService interface {
	// Start 启动服务。该方法应阻塞执行，直到 context 被取消或发生错误。
	Start(ctx context.Context) error

	// Stop 执行优雅关闭逻辑。
	Stop(ctx context.Context) error
}

// Named 可选接口，用于在日志中显示服务名称
type Named interface {
	Name() string
}

// HostedServiceManager 托管服务管理器
type HostedServiceManager struct {
	services []HostedService
	logger   logging.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewHostedServiceManager 创建托管服务管理器
func NewHostedServiceManager(logger logging.Logger) *HostedServiceManager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HostedServiceManager{
		services: make([]HostedService, 0),
		logger:   logger.WithCategory("hosting"),
	}
}

// Add 添加托管服务
func (m *HostedServiceManager) Add(service HostedService) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append(m.services, service)
}

// Len 返回已添加的服务数量
func (m *HostedServiceManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.services)
}

func serviceName(index int, svc HostedService) string {
	if n, ok := svc.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("#%d", index+1)
}

// StartAll 启动所有托管服务，每个服务在独立的 goroutine 中运行。
// 返回的通道接收服务的非取消错误。
func (m *HostedServiceManager) StartAll(ctx context.Context) <-chan error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errCh := make(chan error, len(m.services))
	m.logger.Info(fmt.Sprintf("Starting %d hosted services", len(m.services)))

	for i, service := range m.services {
		name := serviceName(i, service)
		m.wg.Add(1)
		go func(svc HostedService) {
			defer m.wg.Done()

			m.logger.Debug("Starting hosted service", logging.F("service", name))
			err := svc.Start(ctx)
			switch {
			case err == nil:
				m.logger.Debug("Hosted service returned", logging.F("service", name))
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				m.logger.Debug("Hosted service stopped (context done)", logging.F("service", name))
			default:
				m.logger.Error("Hosted service error", logging.F("service", name), logging.Err(err))
				errCh <- fmt.Errorf("hosted service %s: %w", name, err)
			}
		}(service)
	}

	return errCh
}

// StopAll 反向并发停止所有托管服务，返回所有 Stop 错误
func (m *HostedServiceManager) StopAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.logger.Info(fmt.Sprintf("Stopping %d hosted services", len(m.services)))

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	for i := len(m.services) - 1; i >= 0; i-- {
		svc := m.services[i]
		name := serviceName(i, svc)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Stop(ctx); err != nil {
				m.logger.Error("Failed to stop hosted service", logging.F("service", name), logging.Err(err))
				errMu.Lock()
				errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
				errMu.Unlock()
				return
			}
			m.logger.Debug("Hosted service stopped", logging.F("service", name))
		}()
	}
	wg.Wait()

	m.logger.Info("All hosted services stopped")
	return errors.Join(errs...)
}

// Wait 等待所有服务的 Start 返回
func (m *HostedServiceManager) Wait() {
	m.wg.Wait()
}

// Run 启动所有服务，直到 ctx 取消或某个服务出错，然后在 shutdownTimeout 内停止所有服务。
// 返回第一个服务错误和停止错误的组合；正常关闭时返回 nil。
func (m *HostedServiceManager) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := m.StartAll(runCtx)

	var runErr error
	select {
	case <-ctx.Done():
		m.logger.Info("Shutdown requested")
	case runErr = <-errCh:
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	stopErr := m.StopAll(stopCtx)
	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-stopCtx.Done():
		m.logger.Warn("Hosted services did not exit before the shutdown timeout")
	}

	return errors.Join(runErr, stopErr)
}
