package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelInfo,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{{Key: "key", Value: "val"}},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	str := string(out)
	assert.Contains(t, str, "INFO")
	assert.Contains(t, str, "[Test]")
	assert.Contains(t, str, "Hello")
	assert.Contains(t, str, "key=val")
	assert.True(t, strings.HasSuffix(str, "\n"))
}

func TestTextFormatterQuotesValues(t *testing.T) {
	f := &TextFormatter{}
	out, err := f.Format(&LogEntry{
		Level:   LogLevelWarn,
		Message: "Cache read failed",
		Fields:  []Field{Err(errors.New("dial tcp: refused")), F("category", "fruit")},
	})
	require.NoError(t, err)
	assert.Equal(t, "WARN Cache read failed {error=\"dial tcp: refused\", category=fruit}\n", string(out))
}

func TestJsonFormatter(t *testing.T) {
	f := NewJsonFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelInfo,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{F("key", "val"), Err(errors.New("boom"))},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(out, &data))
	assert.Equal(t, "INFO", data["level"])
	assert.Equal(t, "Test", data["category"])

	fields, ok := data["fields"].(map[string]any)
	require.True(t, ok, "expected fields map")
	assert.Equal(t, "val", fields["key"])
	assert.Equal(t, "boom", fields["error"])
}

func TestAsyncWriter(t *testing.T) {
	writer := &syncWriter{}
	asyncWriter := NewAsyncWriter(writer, NewTextFormatter(), 10)

	entry := &LogEntry{
		Time:    time.Now(),
		Level:   LogLevelInfo,
		Message: "Async",
	}
	for i := 0; i < 5; i++ {
		asyncWriter.WriteLog(entry)
	}

	require.NoError(t, asyncWriter.Close())
	require.NoError(t, asyncWriter.Close())

	lines := strings.Split(strings.TrimSpace(writer.String()), "\n")
	assert.Len(t, lines, 5)

	// 关闭之后的写入被丢弃而不是 panic
	asyncWriter.WriteLog(entry)
}

func TestConsoleLoggerCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		SetMinimumLevel(LogLevelDebug).
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build()

	logger := factory.CreateLogger("app").WithFields(F("request", 7))
	logger.Debug("first")
	logger.WithCategory("di").Info("second", F("type", "Reader"))
	logger.Trace("dropped")

	out := buf.String()
	assert.Contains(t, out, "DEBUG [app] first {request=7}")
	assert.Contains(t, out, "INFO [di] second {request=7, type=Reader}")
	assert.NotContains(t, out, "dropped")
}

func TestDerivedLoggersDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().AddConsole(ConsoleLoggerOptions{Output: &buf}).Build()

	base := factory.CreateLogger("x").WithFields(F("a", 1))
	left := base.WithFields(F("b", 2))
	right := base.WithFields(F("c", 3))
	left.Info("left")
	right.Info("right")

	out := buf.String()
	assert.Contains(t, out, "left {a=1, b=2}")
	assert.Contains(t, out, "right {a=1, c=3}")
}

func TestStreamLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	factory, err := NewLoggingBuilder().AddFile(path, true).BuildE()
	require.NoError(t, err)

	factory.CreateLogger("catalog").Info("Import finished", F("products", 3))
	require.NoError(t, factory.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "Import finished", line["msg"])
	assert.Equal(t, "catalog", line["category"])
}

func TestStreamLoggerNeedsTarget(t *testing.T) {
	_, err := NewLoggingBuilder().AddStream(StreamLoggerOptions{}).BuildE()
	assert.Error(t, err)
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		SetMinimumLevel(LogLevelDebug).
		AddZerolog(ZerologOptions{Output: &buf}).
		Build()

	factory.CreateLogger("web").WithFields(F("route", "/products")).
		Warn("Slow request", Err(errors.New("timeout")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "web", line["category"])
	assert.Equal(t, "/products", line["route"])
	assert.Equal(t, "timeout", line["error"])
	assert.Equal(t, "Slow request", line["message"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":        LogLevelInfo,
		"debug":   LogLevelDebug,
		"WARNING": LogLevelWarn,
		" error ": LogLevelError,
		"off":     LogLevelNone,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewFactoryRejectsUnknownFormat(t *testing.T) {
	_, err := NewFactory(Options{Format: "xml"})
	assert.Error(t, err)

	factory, err := NewFactory(Options{Level: "warn"})
	require.NoError(t, err)
	assert.NotNil(t, factory.CreateLogger("ok"))
}

func TestNop(t *testing.T) {
	logger := Nop().WithCategory("x").WithFields(F("k", "v"))
	assert.NotPanics(t, func() { logger.Error("ignored") })
}

type syncWriter struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (w *syncWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func BenchmarkAsyncLogging(b *testing.B) {
	asyncWriter := NewAsyncWriter(io.Discard, NewTextFormatter(), 10000)
	defer asyncWriter.Close()

	entry := &LogEntry{
		Time:    time.Now(),
		Level:   LogLevelInfo,
		Message: "Benchmark",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		asyncWriter.WriteLog(entry)
	}
}
