package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocrud/injector/catalog"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const products = `id,name,category,description,price
1,Apple,fruit,Crisp,1.25
2,Carrot,vegetable,Orange,0.40
3,Pear,fruit,Juicy,1.10
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testSettings 只启用内存实现，不监听端口
func testSettings(t *testing.T) Settings {
	t.Helper()
	s := DefaultSettings()
	s.Catalog.File = writeFile(t, t.TempDir(), "products.csv", products)
	s.HTTP.Enabled = false
	s.Cron.Enabled = false
	s.HTTP.Mode = "test"
	return s
}

func testLoggers(buf *bytes.Buffer) logging.LoggerFactory {
	return logging.NewLoggingBuilder().
		SetMinimumLevel(logging.LogLevelDebug).
		AddConsole(logging.ConsoleLoggerOptions{Output: buf}).
		Build()
}

func TestLoadSettingsLayers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", `
catalog:
  file: /data/products.csv
  cacheTTL: 90
http:
  addr: ":8081"
database:
  dsn: catalog.db
`)
	writeFile(t, dir, ".env", "CATALOG_LOGGING_LEVEL=debug\n")
	t.Setenv("CATALOG_HTTP_ADDR", ":9999")
	t.Setenv("CATALOG_REDIS_DB", "3")
	t.Setenv("CATALOG_CRON_ENABLED", "false")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/products.csv", s.Catalog.File)
	assert.Equal(t, "1m30s", s.Catalog.CacheTTL.String())
	assert.Equal(t, "@every 1h", s.Catalog.ImportSchedule, "defaults survive")
	assert.Equal(t, ":9999", s.HTTP.Addr)
	assert.Equal(t, "catalog.db", s.Database.DSN)
	assert.Equal(t, 10, s.Database.MaxOpenConns)
	assert.Equal(t, 3, s.Redis.DB)
	assert.False(t, s.Cron.Enabled)
	assert.Equal(t, "debug", s.Logging.Level)
}

func TestLoadSettingsWithoutFile(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Catalog, s.Catalog)
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.json", `{"app": {"shutdownTimeout": "soon"}}`)
	_, err := LoadSettings(path)
	assert.Error(t, err)
}

// probe 在托管服务启动时查询商品，然后结束应用
type probe struct {
	app    *Application
	cancel context.CancelFunc
	fruit  []catalog.Product
	err    error
}

func (p *probe) Start(ctx context.Context) error {
	defer p.cancel()
	service, err := di.Resolve[catalog.ProductService](p.app.Container())
	if err != nil {
		p.err = err
		return nil
	}
	p.fruit, p.err = service.GetAllFromCategory(ctx, "fruit")
	return nil
}

func (p *probe) Stop(context.Context) error { return nil }

func TestRunImportsOnStartup(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &probe{cancel: cancel}
	a, err := New(ctx, testSettings(t), WithLoggerFactory(testLoggers(&buf)), WithHostedService(p))
	require.NoError(t, err)
	p.app = a

	require.NoError(t, a.Run(ctx))
	require.NoError(t, p.err)
	require.Len(t, p.fruit, 2)
	assert.Equal(t, "Apple", p.fruit[0].Name)

	out := buf.String()
	assert.Contains(t, out, "Import started")
	assert.Contains(t, out, "Products imported")
	assert.Contains(t, out, "DEBUG [di] Container built")
}

func TestRunWithoutServicesReturns(t *testing.T) {
	s := testSettings(t)
	s.Catalog.ImportOnStart = false

	var buf bytes.Buffer
	a, err := New(context.Background(), s, WithLoggerFactory(testLoggers(&buf)))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, buf.String(), "No hosted services enabled")
}

func TestNewWithSQLite(t *testing.T) {
	s := testSettings(t)
	s.Database.DSN = filepath.Join(t.TempDir(), "catalog.db")

	a, err := New(context.Background(), s, WithLoggerFactory(logging.NewLoggingBuilder().Build()))
	require.NoError(t, err)
	defer a.Close(context.Background())

	store := di.MustResolve[catalog.ProductStore](a.Container())
	assert.IsType(t, &catalog.SQLStore{}, store)

	_, err = di.MustResolve[catalog.Importer](a.Container()).Run(context.Background(), "test")
	require.NoError(t, err)
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestNewFailsOnInvalidInfrastructure(t *testing.T) {
	s := testSettings(t)
	s.Database.DSN = "catalog.db"
	s.Database.MaxOpenConns = -1

	_, err := New(context.Background(), s, WithLoggerFactory(logging.NewLoggingBuilder().Build()))
	assert.ErrorContains(t, err, "pool sizes")
}

type extra interface{ Hello() string }

type extraImpl struct{ di.Component }

func (*extraImpl) Hello() string { return "hello" }

func TestWithBindings(t *testing.T) {
	a, err := New(context.Background(), testSettings(t),
		WithLoggerFactory(logging.NewLoggingBuilder().Build()),
		WithBindings(func(b *di.Builder) error {
			return di.Bind[extra, *extraImpl](b, di.New[extraImpl])
		}))
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.Equal(t, "hello", di.MustResolve[extra](a.Container()).Hello())

	_, err = New(context.Background(), testSettings(t),
		WithLoggerFactory(logging.NewLoggingBuilder().Build()),
		WithBindings(func(b *di.Builder) error {
			return di.Bind[catalog.FileReader, *catalog.LineFileReader](b, di.New[catalog.LineFileReader])
		}))
	assert.ErrorIs(t, err, di.ErrDuplicateBinding)
}

func TestWebHostRoutes(t *testing.T) {
	a, err := New(context.Background(), testSettings(t), WithLoggerFactory(logging.NewLoggingBuilder().Build()))
	require.NoError(t, err)
	defer a.Close(context.Background())

	service := di.MustResolve[catalog.ProductService](a.Container())
	importer := di.MustResolve[catalog.Importer](a.Container())
	host, err := a.newWebHost(service, importer)
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		host.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","products":0}`, w.Body.String())

	w = httptest.NewRecorder()
	host.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/imports", nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = get("/products?category=vegetable")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Carrot")

	w = get("/debug/bindings")
	require.Equal(t, http.StatusOK, w.Code)
	var d Diagnostics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Len(t, d.Bindings, 7)
	assert.Len(t, d.Order, 7)
	assert.Empty(t, d.Cycles)
	assert.Empty(t, d.Dangling)
}

func TestSchedulerRunsImport(t *testing.T) {
	a, err := New(context.Background(), testSettings(t), WithLoggerFactory(logging.NewLoggingBuilder().Build()))
	require.NoError(t, err)
	defer a.Close(context.Background())

	importer := di.MustResolve[catalog.Importer](a.Container())
	scheduler, err := a.newScheduler(importer)
	require.NoError(t, err)
	require.NoError(t, scheduler.RunNow("import"))

	report, ok, err := importer.Last(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cron", report.Trigger)
	assert.Equal(t, 3, report.Imported)
}

func TestLifecycleStop(t *testing.T) {
	l := NewLifecycle()
	var order []string
	l.OnStop(func(context.Context) error { order = append(order, "first"); return nil })
	l.OnStop(func(context.Context) error { order = append(order, "second"); return errors.New("boom") })
	l.OnStop(func(context.Context) error { order = append(order, "third"); return nil })

	err := l.Stop(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"third", "second", "first"}, order)

	require.NoError(t, l.Stop(context.Background()))
	assert.Len(t, order, 3)
}

func TestLifecycleStartStopsOnError(t *testing.T) {
	l := NewLifecycle()
	calls := 0
	l.OnStart(func(context.Context) error { calls++; return errors.New("fail") })
	l.OnStart(func(context.Context) error { calls++; return nil })

	assert.Error(t, l.Start(context.Background()))
	assert.Equal(t, 1, calls)
}
