package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ZerologOptions zerolog 提供者选项
type ZerologOptions struct {
	Output io.Writer
	// Pretty 使用 zerolog.ConsoleWriter 输出人类可读格式
	Pretty bool
}

// ZerologProvider 把日志转发给 zerolog，输出结构化 JSON
type ZerologProvider struct {
	base         zerolog.Logger
	minimumLevel LogLevel
	mu           sync.RWMutex
}

// NewZerologProvider 创建 zerolog 提供者
func NewZerologProvider(options ZerologOptions) *ZerologProvider {
	out := options.Output
	if out == nil {
		out = os.Stdout
	}
	if options.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}
	return &ZerologProvider{
		base:         zerolog.New(out).With().Timestamp().Logger(),
		minimumLevel: LogLevelInfo,
	}
}

func (p *ZerologProvider) CreateLogger(category string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{
		logger:       p.base,
		category:     category,
		minimumLevel: p.minimumLevel,
	}
}

func (p *ZerologProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

type zerologLogger struct {
	logger       zerolog.Logger
	category     string
	minimumLevel LogLevel
	fields       []Field
}

func (l *zerologLogger) Trace(msg string, fields ...Field) {
	l.Log(LogLevelTrace, msg, fields...)
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	l.Log(LogLevelDebug, msg, fields...)
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	l.Log(LogLevelInfo, msg, fields...)
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	l.Log(LogLevelWarn, msg, fields...)
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	l.Log(LogLevelError, msg, fields...)
}

func (l *zerologLogger) Fatal(msg string, fields ...Field) {
	l.Log(LogLevelFatal, msg, fields...)
	os.Exit(1)
}

func (l *zerologLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.minimumLevel {
		return
	}
	event := l.logger.WithLevel(zerologLevel(level))
	if l.category != "" {
		event = event.Str("category", l.category)
	}
	for _, field := range mergeFields(l.fields, fields) {
		if err, ok := field.Value.(error); ok {
			event = event.AnErr(field.Key, err)
			continue
		}
		event = event.Interface(field.Key, field.Value)
	}
	event.Msg(msg)
}

func (l *zerologLogger) WithFields(fields ...Field) Logger {
	return &zerologLogger{
		logger:       l.logger,
		category:     l.category,
		minimumLevel: l.minimumLevel,
		fields:       mergeFields(l.fields, fields),
	}
}

func (l *zerologLogger) WithCategory(category string) Logger {
	return &zerologLogger{
		logger:       l.logger,
		category:     category,
		minimumLevel: l.minimumLevel,
		fields:       l.fields,
	}
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelTrace:
		return zerolog.TraceLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.Disabled
	}
}
