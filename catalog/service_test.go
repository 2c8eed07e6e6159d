package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportSkipsHeaderBlankAndBadLines(t *testing.T) {
	cache := newRecordingCache()
	svc, store := newTestService(t, sampleFile, cache)

	result, err := svc.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 6: expected 5 columns")
	assert.Contains(t, result.Errors[1], `line 7: duplicate id "1", first seen on line 2`)
	assert.Equal(t, 1, cache.invalidated)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	apple, err := svc.Get(context.Background(), " 1 ")
	require.NoError(t, err)
	assert.Equal(t, "Apple", apple.Name)
}

func TestImportWithoutHeader(t *testing.T) {
	svc, _ := newTestService(t, "1,Apple,fruit,Crisp,1.25\n", newRecordingCache())

	result, err := svc.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, result.Skipped)
}

func TestImportMissingFile(t *testing.T) {
	svc, _ := newTestService(t, "", newRecordingCache())
	svc.reader = NewLineFileReader("/does/not/exist.csv")

	_, err := svc.Import(context.Background())
	assert.ErrorContains(t, err, "open product file")
}

func TestGetAllFromCategoryUsesCache(t *testing.T) {
	cache := newRecordingCache()
	svc, store := newTestService(t, sampleFile, cache)
	_, err := svc.Import(context.Background())
	require.NoError(t, err)

	fruit, err := svc.GetAllFromCategory(context.Background(), "fruit")
	require.NoError(t, err)
	require.Len(t, fruit, 2)
	assert.Equal(t, "1", fruit[0].ID)
	assert.Equal(t, "3", fruit[1].ID)

	// 存储被清空后，第二次查询仍然命中缓存
	require.NoError(t, store.Replace(context.Background(), nil))
	cached, err := svc.GetAllFromCategory(context.Background(), "fruit")
	require.NoError(t, err)
	assert.Equal(t, fruit, cached)
	assert.Equal(t, 2, cache.gets)

	empty, err := svc.GetAllFromCategory(context.Background(), "toys")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAllFromCategoryIgnoresCacheFailure(t *testing.T) {
	cache := newRecordingCache()
	cache.failGet = true
	svc, _ := newTestService(t, sampleFile, cache)
	_, err := svc.Import(context.Background())
	require.NoError(t, err)

	veg, err := svc.GetAllFromCategory(context.Background(), "vegetable")
	require.NoError(t, err)
	require.Len(t, veg, 1)
	assert.Equal(t, "Carrot", veg[0].Name)
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, sampleFile, &NoopCache{})
	_, err := svc.Get(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}
