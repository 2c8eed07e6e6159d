package di

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/gocrud/injector/logging"
)

// Builder 收集绑定并构建不可变的容器。
type Builder struct {
	mu       sync.Mutex
	bindings map[reflect.Type]*binding
	order    []reflect.Type
	errs     []error
	built    bool
	logger   logging.Logger
}

// NewBuilder 创建空的构建器
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		bindings: make(map[reflect.Type]*binding),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind 把抽象 A 绑定到实现 C。
// factory 是 C 的零参数构造函数，C 必须是指针类型，slots 声明 C 的依赖槽。
// 错误会同时被记录下来，由 Build 统一返回。
//
//	di.Bind[ProductService, *DefaultProductService](b, di.New[DefaultProductService],
//		di.Slot(func(s *DefaultProductService, p ProductParser) { s.parser = p }),
//	)
func Bind[A any, C any](b *Builder, factory func() (C, error), slots ...Injection[C]) error {
	abstraction := TypeOf[A]()
	concrete := TypeOf[C]()

	err := b.add(abstraction, concrete, factory != nil, func() *binding {
		def := &binding{
			abstraction: abstraction,
			concrete:    concrete,
			marked:      concrete.Implements(injectableType),
			construct: func() (any, error) {
				instance, err := factory()
				if err != nil {
					return nil, err
				}
				if isNil(instance) {
					return nil, fmt.Errorf("factory returned nil %s", typeName(concrete))
				}
				return instance, nil
			},
			slots: make([]slot, 0, len(slots)),
		}
		for _, s := range slots {
			def.slots = append(def.slots, s.slot)
		}
		return def
	})
	return err
}

// MustBind 与 Bind 相同，失败时 panic
func MustBind[A any, C any](b *Builder, factory func() (C, error), slots ...Injection[C]) {
	if err := Bind[A, C](b, factory, slots...); err != nil {
		panic(err)
	}
}

func (b *Builder) add(abstraction, concrete reflect.Type, hasFactory bool, define func() *binding) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return ErrBuilt
	}

	err := validateBinding(abstraction, concrete, hasFactory)
	if err == nil {
		if _, exists := b.bindings[abstraction]; exists {
			err = fmt.Errorf("%w: %s", ErrDuplicateBinding, typeName(abstraction))
		}
	}
	if err != nil {
		b.errs = append(b.errs, err)
		return err
	}

	def := define()
	for _, s := range def.slots {
		if s.abstraction.Kind() != reflect.Interface {
			err := fmt.Errorf("%w: slot %s on %s", ErrNotInterface, typeName(s.abstraction), typeName(concrete))
			b.errs = append(b.errs, err)
			return err
		}
	}

	b.bindings[abstraction] = def
	b.order = append(b.order, abstraction)
	return nil
}

func validateBinding(abstraction, concrete reflect.Type, hasFactory bool) error {
	if abstraction.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, typeName(abstraction))
	}
	if !hasFactory {
		return fmt.Errorf("%w: %s", ErrNilFactory, typeName(abstraction))
	}
	if concrete.Kind() != reflect.Pointer {
		return fmt.Errorf("%w: %s", ErrNotPointer, typeName(concrete))
	}
	if !concrete.Implements(abstraction) {
		return fmt.Errorf("%w: %s does not implement %s", ErrNotImplemented, typeName(concrete), typeName(abstraction))
	}
	return nil
}

// Build 构建容器。此后 Builder 不再接受绑定，绑定表不可变。
// 注册期间的所有错误在这里合并返回。
func (b *Builder) Build() (*Container, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return nil, ErrBuilt
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("di: invalid bindings: %w", errors.Join(b.errs...))
	}
	b.built = true

	shareConcrete(b.order, b.bindings)
	c := newContainer(b.bindings, b.logger)

	graph := c.Graph()
	for _, cycle := range graph.Cycles {
		c.logger.Warn("Cyclic dependency, instances in the cycle may be handed out partially injected",
			logging.Field{Key: "cycle", Value: formatPath(cycle)})
	}
	for _, d := range graph.Dangling {
		c.logger.Warn("Slot references an unbound abstraction",
			logging.Field{Key: "owner", Value: typeName(d.Owner)},
			logging.Field{Key: "slot", Value: typeName(d.Slot)})
	}

	c.logger.Debug("Container built",
		logging.Field{Key: "bindings", Value: len(b.bindings)})
	return c, nil
}

// shareConcrete 处理多个抽象绑定到同一实现类型的情况。
// 缓存按实现类型保存单例，所以这些绑定共用第一个注册的构造函数，
// 依赖槽按注册顺序合并，先解析哪个抽象都会填充全部依赖槽。
func shareConcrete(order []reflect.Type, bindings map[reflect.Type]*binding) {
	groups := make(map[reflect.Type][]*binding)
	for _, abstraction := range order {
		def := bindings[abstraction]
		groups[def.concrete] = append(groups[def.concrete], def)
	}

	for _, defs := range groups {
		if len(defs) < 2 {
			continue
		}
		var merged []slot
		for _, def := range defs {
			merged = append(merged, def.slots...)
		}
		for _, def := range defs {
			def.slots = merged
			def.construct = defs[0].construct
		}
	}
}

// isNil 判断构造函数返回的实例是否为 nil
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
