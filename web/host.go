package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gocrud/injector/logging"
)

// Host Web 主机，实现 hosting.HostedService
type Host struct {
	addr   string
	engine http.Handler
	server *http.Server
	logger logging.Logger

	mu       sync.RWMutex
	listener net.Listener
	ready    chan struct{}
}

// Name 用于托管服务日志
func (h *Host) Name() string {
	return "web"
}

// Handler 返回路由处理器，便于测试直接调用
func (h *Host) Handler() http.Handler {
	return h.engine
}

// Address 获取实际监听地址，仅在 Ready 关闭后有效
func (h *Host) Address() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.listener != nil {
		return h.listener.Addr().String()
	}
	return h.addr
}

// Ready 在开始监听后关闭
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Start 启动 Web 主机，阻塞直到服务退出
func (h *Host) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", h.addr, err)
	}

	h.mu.Lock()
	h.listener = ln
	h.mu.Unlock()
	close(h.ready)

	h.logger.Info("Web host started", logging.F("address", ln.Addr().String()))

	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("Web host error", logging.Err(err))
		return err
	}
	return nil
}

// Stop 优雅关闭 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("Stopping web host")

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error("Failed to shutdown web host gracefully", logging.Err(err))
		return err
	}

	h.logger.Info("Web host stopped")
	return nil
}
