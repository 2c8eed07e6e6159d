package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gocrud/injector/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeFixture = []Product{
	{ID: "2", Name: "Carrot", Category: "vegetable", Price: 0.4},
	{ID: "3", Name: "Pear", Category: "fruit", Price: 1.1},
	{ID: "1", Name: "Apple", Category: "fruit", Price: 1.25},
}

func openSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	opts := database.NewDefaultOptions()
	opts.DSN = filepath.Join(t.TempDir(), "catalog.db")

	db, err := database.Open(opts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	store, err := NewSQLStore(db)
	require.NoError(t, err)
	return store
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) ProductStore{
		"memory": func(*testing.T) ProductStore { return NewMemoryStore() },
		"sql":    func(t *testing.T) ProductStore { return openSQLStore(t) },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			require.NoError(t, store.Replace(ctx, storeFixture))
			n, err := store.Count(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 3, n)

			fruit, err := store.ByCategory(ctx, "fruit")
			require.NoError(t, err)
			require.Len(t, fruit, 2)
			assert.Equal(t, "1", fruit[0].ID)
			assert.Equal(t, "3", fruit[1].ID)

			none, err := store.ByCategory(ctx, "toys")
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)

			carrot, err := store.Get(ctx, "2")
			require.NoError(t, err)
			assert.Equal(t, "Carrot", carrot.Name)

			_, err = store.Get(ctx, "404")
			assert.ErrorIs(t, err, ErrNotFound)

			// Replace 丢弃旧数据
			require.NoError(t, store.Replace(ctx, storeFixture[:1]))
			n, err = store.Count(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
			_, err = store.Get(ctx, "1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Replace(ctx, nil))
			n, err = store.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestNewSQLStoreRequiresDB(t *testing.T) {
	_, err := NewSQLStore(nil)
	assert.Error(t, err)
}

func TestNoopArchiveKeepsLatest(t *testing.T) {
	ctx := context.Background()
	archive := &NoopArchive{}

	_, ok, err := archive.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, archive.Record(ctx, ImportReport{BatchID: "a"}))
	require.NoError(t, archive.Record(ctx, ImportReport{BatchID: "b"}))
	latest, ok, err := archive.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", latest.BatchID)
}
