package catalog

import (
	"context"
	"testing"

	"github.com/gocrud/injector/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildContainer(t *testing.T, opts Options, infra Infrastructure) *di.Container {
	t.Helper()
	b := di.NewBuilder()
	require.NoError(t, Register(b, opts, infra))
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestRegisterWithoutInfrastructure(t *testing.T) {
	c := buildContainer(t, Options{File: writeProducts(t, sampleFile)}, Infrastructure{})

	g := c.Graph()
	assert.Len(t, g.Order, 7)
	assert.Empty(t, g.Cycles)
	assert.Empty(t, g.Dangling)
	position := make(map[string]int, len(g.Order))
	for i, typ := range g.Order {
		position[typ.Name()] = i
	}
	assert.Less(t, position["FileReader"], position["ProductService"])
	assert.Less(t, position["ProductStore"], position["ProductService"])
	assert.Less(t, position["ProductService"], position["Importer"])
	assert.Less(t, position["ImportArchive"], position["Importer"])

	importer := di.MustResolve[Importer](c)
	report, err := importer.Run(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)

	// 导入器持有的服务与容器返回的是同一个单例
	service := di.MustResolve[ProductService](c)
	assert.Same(t, importer.(*ArchivingImporter).service, service)

	fruit, err := service.GetAllFromCategory(context.Background(), "fruit")
	require.NoError(t, err)
	assert.Len(t, fruit, 2)

	store := di.MustResolve[ProductStore](c)
	assert.IsType(t, &MemoryStore{}, store)
	assert.IsType(t, &NoopCache{}, di.MustResolve[ProductCache](c))
	assert.IsType(t, &NoopArchive{}, di.MustResolve[ImportArchive](c))

	for _, info := range c.Bindings() {
		assert.True(t, info.Marked, info.Abstraction.String())
		assert.True(t, info.Resolved, info.Abstraction.String())
	}
}

func TestRegisterRejectsDuplicateRegistration(t *testing.T) {
	b := di.NewBuilder()
	require.NoError(t, Register(b, Options{}, Infrastructure{}))

	err := Register(b, Options{}, Infrastructure{})
	assert.ErrorIs(t, err, di.ErrDuplicateBinding)
}

func TestImportWithoutFileFailsThroughContainer(t *testing.T) {
	c := buildContainer(t, Options{}, Infrastructure{})

	importer := di.MustResolve[Importer](c)
	report, err := importer.Run(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, report.Failure, "product file is not configured")
}
