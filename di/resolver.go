package di

import (
	"fmt"
	"reflect"

	"github.com/gocrud/injector/logging"
)

// resolution 一次顶层解析的状态。
// 调用者必须持有 container.mu 的写锁。
type resolution struct {
	container *Container
	// created 本次解析新写入缓存的实现类型，失败时回滚
	created []reflect.Type
}

// resolve 递归解析 abstraction。path 是到达它之前的解析链。
func (r *resolution) resolve(abstraction reflect.Type, path []reflect.Type) (any, error) {
	// 三下标切片保证 append 总是复制，兄弟槽之间不会共享底层数组
	path = append(path[:len(path):len(path)], abstraction)

	c := r.container
	def, err := c.lookup(abstraction, path)
	if err != nil {
		return nil, err
	}

	// 单例：已缓存（包括循环中尚未填充完的实例）直接返回
	if instance, ok := c.instances[def.concrete]; ok {
		return instance, nil
	}

	instance, err := construct(def)
	if err != nil {
		return nil, &InstantiationError{
			Abstraction: abstraction,
			Concrete:    def.concrete,
			Path:        path,
			Cause:       err,
		}
	}

	// 先缓存再填充依赖槽，循环依赖因此可以终止
	c.instances[def.concrete] = instance
	r.created = append(r.created, def.concrete)

	c.logger.Debug("Instance constructed",
		logging.Field{Key: "abstraction", Value: typeName(abstraction)},
		logging.Field{Key: "concrete", Value: typeName(def.concrete)})

	for _, s := range def.slots {
		dep, err := r.resolve(s.abstraction, path)
		if err != nil {
			return nil, err
		}
		if err := assign(s, instance, dep); err != nil {
			return nil, &InstantiationError{
				Abstraction: abstraction,
				Concrete:    def.concrete,
				Path:        path,
				Cause:       err,
			}
		}
	}

	return instance, nil
}

// rollback 移除本次解析写入缓存的所有实例
func (r *resolution) rollback() {
	for _, concrete := range r.created {
		delete(r.container.instances, concrete)
	}
	r.created = nil
}

// construct 调用零参数构造函数，把 panic 转换为错误
func construct(def *binding) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	return def.construct()
}

// assign 通过 setter 填充依赖槽，把 panic 转换为错误
func assign(s slot, instance, dep any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("slot %s setter panicked: %v", typeName(s.abstraction), rec)
		}
	}()
	return s.assign(instance, dep)
}
