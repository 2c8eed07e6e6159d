package di

import (
	"fmt"
	"sync"
)

// 进程级默认容器。
// 绑定在第一次调用 Default 之前通过 Provide 注册（通常在 init 或 main 中），
// 第一次调用 Default 时构建，此后不可重新配置。
var (
	defaultMu        sync.Mutex
	defaultBuilder   = NewBuilder()
	defaultContainer *Container
)

// Provide 向默认容器注册绑定。
// Default 被调用之后返回 ErrDefaultSealed。
func Provide[A any, C any](factory func() (C, error), slots ...Injection[C]) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultContainer != nil {
		return fmt.Errorf("%w: cannot bind %s", ErrDefaultSealed, typeName(TypeOf[A]()))
	}
	return Bind[A, C](defaultBuilder, factory, slots...)
}

// ConfigureDefault 对默认容器的构建器应用选项（例如 WithLogger）。
// Default 被调用之后返回 ErrDefaultSealed。
func ConfigureDefault(opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultContainer != nil {
		return ErrDefaultSealed
	}
	for _, opt := range opts {
		opt(defaultBuilder)
	}
	return nil
}

// Default 返回进程级容器，第一次调用时构建。
// 注册期间有错误时 panic：这是致命的装配错误。
func Default() *Container {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultContainer == nil {
		c, err := defaultBuilder.Build()
		if err != nil {
			panic(err)
		}
		defaultContainer = c
	}
	return defaultContainer
}

// Inject 从默认容器中解析类型 T 的实例，失败时 panic
func Inject[T any]() T {
	return MustResolve[T](Default())
}

// TryInject 从默认容器中解析实例，返回实例和错误
func TryInject[T any]() (T, error) {
	return Resolve[T](Default())
}
