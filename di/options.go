package di

import "github.com/gocrud/injector/logging"

// Option 配置 Builder。
type Option func(*Builder)

// WithLogger 设置容器日志记录器。
// 容器以 Debug 级别记录实例构造，以 Warn 级别记录依赖图问题。
func WithLogger(logger logging.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger.WithCategory("di")
		}
	}
}
