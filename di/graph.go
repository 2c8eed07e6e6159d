package di

import (
	"reflect"
	"sort"
)

// Graph 是绑定表的依赖图报告。
type Graph struct {
	// Order 依赖在前、依赖方在后的抽象顺序。循环在回边处断开。
	Order []reflect.Type
	// Cycles 检测到的循环，每个循环以起点结尾，例如 [A, B, A]
	Cycles [][]reflect.Type
	// Dangling 引用了未绑定抽象的依赖槽
	Dangling []DanglingSlot
}

// DanglingSlot 引用未绑定抽象的依赖槽。
// 它不会让 Build 失败，只会在解析 Owner 时返回 *UnboundAbstractionError。
type DanglingSlot struct {
	Owner reflect.Type
	Slot  reflect.Type
}

// Graph 分析依赖图。循环是合法的，这里只做报告。
func (c *Container) Graph() Graph {
	return newGraphBuilder(c.bindings).build()
}

// graphBuilder 基于 DFS 的依赖图分析
type graphBuilder struct {
	bindings map[reflect.Type]*binding
	visited  map[reflect.Type]bool
	onStack  map[reflect.Type]int
	stack    []reflect.Type
	graph    Graph
}

func newGraphBuilder(bindings map[reflect.Type]*binding) *graphBuilder {
	return &graphBuilder{
		bindings: bindings,
		visited:  make(map[reflect.Type]bool),
		onStack:  make(map[reflect.Type]int),
	}
}

func (g *graphBuilder) build() Graph {
	// map 迭代顺序随机，按名称排序保证报告是确定的
	for _, key := range sortedTypes(g.bindings) {
		if !g.visited[key] {
			g.visit(key)
		}
	}
	return g.graph
}

func (g *graphBuilder) visit(u reflect.Type) {
	g.visited[u] = true
	g.onStack[u] = len(g.stack)
	g.stack = append(g.stack, u)

	for _, s := range g.bindings[u].slots {
		v := s.abstraction
		if _, bound := g.bindings[v]; !bound {
			g.graph.Dangling = append(g.graph.Dangling, DanglingSlot{Owner: u, Slot: v})
			continue
		}

		if !g.visited[v] {
			g.visit(v)
		} else if idx, ok := g.onStack[v]; ok {
			cycle := make([]reflect.Type, 0, len(g.stack)-idx+1)
			cycle = append(cycle, g.stack[idx:]...)
			cycle = append(cycle, v)
			g.graph.Cycles = append(g.graph.Cycles, cycle)
		}
	}

	g.stack = g.stack[:len(g.stack)-1]
	delete(g.onStack, u)
	g.graph.Order = append(g.graph.Order, u)
}

func sortedTypes(bindings map[reflect.Type]*binding) []reflect.Type {
	keys := make([]reflect.Type, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return typeName(keys[i]) < typeName(keys[j])
	})
	return keys
}
