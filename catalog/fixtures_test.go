package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleFile = `id,name,category,description,price
1,Apple,fruit,Crisp,1.25

2,Carrot,vegetable,Orange,0.40
3,Pear,fruit,Juicy,1.10
broken line
1,Apple again,fruit,Duplicate,2.00
`

func writeProducts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// recordingCache 记录调用，便于断言缓存行为
type recordingCache struct {
	data        map[string][]Product
	gets        int
	invalidated int
	failGet     bool
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: make(map[string][]Product)}
}

func (c *recordingCache) GetCategory(_ context.Context, category string) ([]Product, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	p, ok := c.data[category]
	return p, ok, nil
}

func (c *recordingCache) SetCategory(_ context.Context, category string, products []Product) error {
	c.data[category] = products
	return nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.invalidated++
	c.data = make(map[string][]Product)
	return nil
}

func newTestService(t *testing.T, content string, cache ProductCache) (*DefaultProductService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewDefaultProductService(nil)
	svc.reader = NewLineFileReader(writeProducts(t, content))
	svc.parser = NewCSVParser()
	svc.store = store
	svc.cache = cache
	return svc, store
}
