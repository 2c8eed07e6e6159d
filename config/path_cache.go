package config

import (
	"strings"
	"sync"
)

// keySegments 把 "Redis:Addr" 或 "redis.addr" 形式的键拆成小写片段，按原始键缓存结果
type keySegments struct {
	seen sync.Map // string -> []string
}

func (k *keySegments) split(key string) []string {
	if cached, ok := k.seen.Load(key); ok {
		return cached.([]string)
	}

	fields := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return r == ':' || r == '.'
	})
	actual, _ := k.seen.LoadOrStore(key, fields)
	return actual.([]string)
}

var segments keySegments
