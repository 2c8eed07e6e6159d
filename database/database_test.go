package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocrud/injector/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestOptionsValidate(t *testing.T) {
	opts := NewDefaultOptions()
	assert.Error(t, opts.Validate(), "dsn is required")

	opts.DSN = ":memory:"
	assert.NoError(t, opts.Validate())

	opts.Driver = "mysql"
	assert.Error(t, opts.Validate())

	opts = NewDefaultOptions()
	opts.DSN = "x.db"
	opts.MaxIdleConns = -1
	assert.Error(t, opts.Validate())
}

func TestOpenInMemory(t *testing.T) {
	opts := NewDefaultOptions()
	opts.DSN = "file::memory:?cache=shared"
	opts.MaxOpenConns = 1

	db, err := Open(opts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggingBuilder().
		SetMinimumLevel(logging.LogLevelDebug).
		AddConsole(logging.ConsoleLoggerOptions{Output: &buf}).
		Build().
		CreateLogger("db")

	gl := NewGormLogger(logger, 10*time.Millisecond)
	sql := func() (string, int64) { return "SELECT * FROM products", 3 }

	gl.Trace(context.Background(), time.Now(), sql, errors.New("no such table"))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)

	out := buf.String()
	assert.Contains(t, out, "ERROR [gorm] Query failed")
	assert.Contains(t, out, "WARN [gorm] Slow query")
	assert.NotContains(t, out, "DEBUG")

	buf.Reset()
	gl.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), sql, nil)
	assert.Contains(t, buf.String(), "DEBUG [gorm] Query")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("x"))
	assert.Empty(t, buf.String())
}
