package logging

import (
	"os"
	"time"
)

// sink 接收已经过滤的日志条目
type sink interface {
	emit(entry *LogEntry)
}

// entryLogger 把调用转换成 LogEntry 交给 sink，控制台和流提供者共用
type entryLogger struct {
	sink         sink
	category     string
	minimumLevel LogLevel
	fields       []Field
}

func (l *entryLogger) Trace(msg string, fields ...Field) {
	l.Log(LogLevelTrace, msg, fields...)
}

func (l *entryLogger) Debug(msg string, fields ...Field) {
	l.Log(LogLevelDebug, msg, fields...)
}

func (l *entryLogger) Info(msg string, fields ...Field) {
	l.Log(LogLevelInfo, msg, fields...)
}

func (l *entryLogger) Warn(msg string, fields ...Field) {
	l.Log(LogLevelWarn, msg, fields...)
}

func (l *entryLogger) Error(msg string, fields ...Field) {
	l.Log(LogLevelError, msg, fields...)
}

func (l *entryLogger) Fatal(msg string, fields ...Field) {
	l.Log(LogLevelFatal, msg, fields...)
	os.Exit(1)
}

func (l *entryLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.minimumLevel {
		return
	}
	l.sink.emit(&LogEntry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   mergeFields(l.fields, fields),
	})
}

func (l *entryLogger) WithFields(fields ...Field) Logger {
	return &entryLogger{
		sink:         l.sink,
		category:     l.category,
		minimumLevel: l.minimumLevel,
		fields:       mergeFields(l.fields, fields),
	}
}

func (l *entryLogger) WithCategory(category string) Logger {
	return &entryLogger{
		sink:         l.sink,
		category:     category,
		minimumLevel: l.minimumLevel,
		fields:       l.fields,
	}
}
