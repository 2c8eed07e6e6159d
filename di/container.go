package di

import (
	"reflect"
	"sort"
	"sync"

	"github.com/gocrud/injector/logging"
)

// Container 是依赖注入容器。
// 绑定表在构建后不可变；实例缓存按实现类型保存单例，解析时惰性填充。
// Container 可以被多个 goroutine 并发使用。
type Container struct {
	// bindings 构建后只读，可以无锁访问
	bindings map[reflect.Type]*binding

	// mu 保护 instances。缓存未命中时整个解析过程持有写锁，
	// 因此其他 goroutine 只能看到已完全注入的实例。
	mu        sync.RWMutex
	instances map[reflect.Type]any

	logger logging.Logger
}

func newContainer(bindings map[reflect.Type]*binding, logger logging.Logger) *Container {
	frozen := make(map[reflect.Type]*binding, len(bindings))
	for k, v := range bindings {
		frozen[k] = v
	}
	return &Container{
		bindings:  frozen,
		instances: make(map[reflect.Type]any),
		logger:    logger,
	}
}

// Resolve 返回抽象类型 abstraction 的单例实例。
//
// 失败时返回 *UnboundAbstractionError、*MissingInjectionMarkerError 或
// *InstantiationError，依赖图任意深度的失败都会中止整个解析，
// 本次解析期间写入缓存的实例会被回滚。
//
// 循环依赖可以终止，但循环中的对象可能拿到尚未填充完毕的实例。
func (c *Container) Resolve(abstraction reflect.Type) (any, error) {
	def, err := c.lookup(abstraction, []reflect.Type{abstraction})
	if err != nil {
		return nil, err
	}

	// 快速路径：缓存中的实例都已完全注入
	c.mu.RLock()
	instance, ok := c.instances[def.concrete]
	c.mu.RUnlock()
	if ok {
		return instance, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	r := &resolution{container: c}
	instance, err = r.resolve(abstraction, nil)
	if err != nil {
		r.rollback()
		c.logger.Debug("Resolution failed",
			logging.Field{Key: "abstraction", Value: typeName(abstraction)},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, err
	}
	return instance, nil
}

// lookup 执行解析的前两步：查找绑定并检查可注入标记
func (c *Container) lookup(abstraction reflect.Type, path []reflect.Type) (*binding, error) {
	def, ok := c.bindings[abstraction]
	if !ok {
		return nil, &UnboundAbstractionError{Abstraction: abstraction, Path: path}
	}
	if !def.marked {
		return nil, &MissingInjectionMarkerError{
			Abstraction: abstraction,
			Concrete:    def.concrete,
			Path:        path,
		}
	}
	return def, nil
}

// Has 报告抽象是否已绑定
func (c *Container) Has(abstraction reflect.Type) bool {
	_, ok := c.bindings[abstraction]
	return ok
}

// Bindings 返回所有绑定的描述，按抽象类型名称排序
func (c *Container) Bindings() []BindingInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]BindingInfo, 0, len(c.bindings))
	for _, def := range c.bindings {
		_, resolved := c.instances[def.concrete]
		result = append(result, BindingInfo{
			Abstraction: def.abstraction,
			Concrete:    def.concrete,
			Slots:       def.slotTypes(),
			Marked:      def.marked,
			Resolved:    resolved,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return typeName(result[i].Abstraction) < typeName(result[j].Abstraction)
	})
	return result
}
