package di

import (
	"fmt"
	"reflect"
)

// Component 是可注入标记。
// 实现类型通过嵌入它来声明自己由容器管理：
//
//	type FileReader struct {
//		di.Component
//	}
type Component struct{}

func (Component) injectable() {}

// injectable 只能由嵌入 Component 的类型满足
type injectable interface {
	injectable()
}

var injectableType = TypeOf[injectable]()

// Injection 描述实现类型 C 上的一个依赖槽。
// 使用 Slot 创建。
type Injection[C any] struct {
	slot slot
}

// slot 依赖槽的类型擦除形式
type slot struct {
	abstraction reflect.Type
	assign      func(instance, dep any) error
}

// Slot 声明一个依赖槽：容器解析 D 并通过 set 赋给实例。
// D 必须是接口类型（槽声明的是抽象而不是实现）。
//
//	di.Slot(func(s *ProductService, p Parser) { s.parser = p })
func Slot[C any, D any](set func(C, D)) Injection[C] {
	return Injection[C]{slot: slot{
		abstraction: TypeOf[D](),
		assign: func(instance, dep any) error {
			if set == nil {
				return fmt.Errorf("nil setter for slot %s", typeName(TypeOf[D]()))
			}
			target, ok := instance.(C)
			if !ok {
				return fmt.Errorf("instance %T is not %s", instance, typeName(TypeOf[C]()))
			}
			value, ok := dep.(D)
			if !ok {
				return fmt.Errorf("slot %s: resolved value %T does not implement it", typeName(TypeOf[D]()), dep)
			}
			set(target, value)
			return nil
		},
	}}
}

// New 是零参数构造函数的默认实现，返回 *T 的零值
//
//	di.Bind[Reader, *FileReader](b, di.New[FileReader])
func New[T any]() (*T, error) {
	return new(T), nil
}

// binding 注册表中的一条绑定（抽象 -> 实现）
type binding struct {
	abstraction reflect.Type
	concrete    reflect.Type
	marked      bool
	construct   func() (any, error)
	slots       []slot
}

// slotTypes 返回该绑定所有依赖槽的抽象类型
func (b *binding) slotTypes() []reflect.Type {
	types := make([]reflect.Type, len(b.slots))
	for i, s := range b.slots {
		types[i] = s.abstraction
	}
	return types
}

// BindingInfo 描述一条绑定，用于内省
type BindingInfo struct {
	Abstraction reflect.Type
	Concrete    reflect.Type
	Slots       []reflect.Type
	Marked      bool
	Resolved    bool
}
