package di

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnbound 可通过 errors.Is 匹配任意 *UnboundAbstractionError
	ErrUnbound = errors.New("di: unbound abstraction")
	// ErrMissingMarker 可通过 errors.Is 匹配任意 *MissingInjectionMarkerError
	ErrMissingMarker = errors.New("di: missing injection marker")
	// ErrInstantiation 可通过 errors.Is 匹配任意 *InstantiationError
	ErrInstantiation = errors.New("di: instantiation failed")

	// ErrDuplicateBinding 同一个抽象被绑定了两次
	ErrDuplicateBinding = errors.New("di: abstraction already bound")
	// ErrNotInterface 抽象（或依赖槽）不是接口类型
	ErrNotInterface = errors.New("di: abstraction must be an interface type")
	// ErrNotImplemented 实现类型没有实现抽象
	ErrNotImplemented = errors.New("di: concrete type does not implement abstraction")
	// ErrNotPointer 实现类型不是指针。值类型的实例每次都会被复制，依赖槽写入的是副本
	ErrNotPointer = errors.New("di: concrete type must be a pointer")
	// ErrNilFactory 构造函数为 nil
	ErrNilFactory = errors.New("di: nil factory")
	// ErrBuilt 容器构建后不能再注册
	ErrBuilt = errors.New("di: builder already built")
	// ErrDefaultSealed 默认容器已经创建，不能再注册
	ErrDefaultSealed = errors.New("di: default container already created")
)

// UnboundAbstractionError 请求的抽象没有注册任何实现。
// 表示容器配置错误，不会重试。
type UnboundAbstractionError struct {
	Abstraction reflect.Type
	// Path 从顶层请求到出错抽象的解析链
	Path []reflect.Type
}

func (e *UnboundAbstractionError) Error() string {
	msg := fmt.Sprintf("di: no implementation bound for %s", typeName(e.Abstraction))
	if len(e.Path) > 1 {
		msg += " (resolving " + formatPath(e.Path) + ")"
	}
	return msg
}

func (e *UnboundAbstractionError) Is(target error) bool {
	return target == ErrUnbound
}

// MissingInjectionMarkerError 绑定的实现类型没有嵌入 Component。
type MissingInjectionMarkerError struct {
	Abstraction reflect.Type
	Concrete    reflect.Type
	Path        []reflect.Type
}

func (e *MissingInjectionMarkerError) Error() string {
	msg := fmt.Sprintf("di: %s bound to %s is not injectable, embed di.Component",
		typeName(e.Abstraction), typeName(e.Concrete))
	if len(e.Path) > 1 {
		msg += " (resolving " + formatPath(e.Path) + ")"
	}
	return msg
}

func (e *MissingInjectionMarkerError) Is(target error) bool {
	return target == ErrMissingMarker
}

// InstantiationError 构造实例或填充依赖槽失败。
// Cause 保留底层错误。
type InstantiationError struct {
	Abstraction reflect.Type
	Concrete    reflect.Type
	Path        []reflect.Type
	Cause       error
}

func (e *InstantiationError) Error() string {
	msg := fmt.Sprintf("di: could not instantiate %s for %s", typeName(e.Concrete), typeName(e.Abstraction))
	if len(e.Path) > 1 {
		msg += " (resolving " + formatPath(e.Path) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InstantiationError) Unwrap() error {
	return e.Cause
}

func (e *InstantiationError) Is(target error) bool {
	return target == ErrInstantiation
}
