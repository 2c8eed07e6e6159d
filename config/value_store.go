package config

import (
	"sync/atomic"
)

// snapshot 持有合并后的配置树。
// 读取方拿到的 map 不再修改，重新加载时整棵树一起替换。
type snapshot struct {
	tree atomic.Pointer[map[string]any]
}

func newSnapshot(tree map[string]any) *snapshot {
	s := &snapshot{}
	s.replace(tree)
	return s
}

func (s *snapshot) load() map[string]any {
	return *s.tree.Load()
}

func (s *snapshot) replace(tree map[string]any) {
	if tree == nil {
		tree = map[string]any{}
	}
	s.tree.Store(&tree)
}
