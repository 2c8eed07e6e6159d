package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Run 装配应用并运行到收到 SIGINT/SIGTERM
func Run(settings Settings, opts ...Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, settings, opts...)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
