package di

import (
	"reflect"
	"strings"
)

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 容器只把 reflect.Type 当作身份键和诊断名称使用，不做结构体内省。
//
// 示例：
//
//	readerType := di.TypeOf[Reader]()
//	instance, _ := container.Resolve(readerType)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// typeName 返回用于错误信息和日志的类型名称
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// formatPath 把解析链渲染为 "A -> B -> C"
func formatPath(path []reflect.Type) string {
	names := make([]string, len(path))
	for i, t := range path {
		names[i] = typeName(t)
	}
	return strings.Join(names, " -> ")
}
