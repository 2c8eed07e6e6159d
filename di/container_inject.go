package di

import (
	"fmt"
	"reflect"
)

// Inject 通过指针注入实例到目标变量
// 用法示例：
//
//	var svc ProductService
//	if err := c.Inject(&svc); err != nil { ... }
//
// 目标指针的元素类型就是要解析的抽象。
func (c *Container) Inject(target any) error {
	targetVal := reflect.ValueOf(target)
	if targetVal.Kind() != reflect.Pointer {
		return fmt.Errorf("di: inject target must be a pointer, got %T", target)
	}
	if targetVal.IsNil() {
		return fmt.Errorf("di: inject target pointer is nil")
	}

	elemVal := targetVal.Elem()
	instance, err := c.Resolve(elemVal.Type())
	if err != nil {
		return err
	}

	elemVal.Set(reflect.ValueOf(instance))
	return nil
}

// MustInject 通过指针注入实例，失败时 panic
func (c *Container) MustInject(target any) {
	if err := c.Inject(target); err != nil {
		panic(err)
	}
}
