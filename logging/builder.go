package logging

import (
	"fmt"
	"os"
	"sync"
)

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	providers    []LoggerProvider
	minimumLevel LogLevel
	errs         []error
	mu           sync.RWMutex
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		providers:    make([]LoggerProvider, 0),
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimumLevel = level
	return b
}

// AddProvider 添加日志提供者
func (b *LoggingBuilder) AddProvider(provider LoggerProvider) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append(b.providers, provider)
	return b
}

// AddConsole 添加控制台日志
func (b *LoggingBuilder) AddConsole(options ...ConsoleLoggerOptions) *LoggingBuilder {
	opts := ConsoleLoggerOptions{
		IncludeTimestamp: true,
		TimestampFormat:  "2006-01-02 15:04:05",
		ColorOutput:      true,
		Output:           os.Stdout,
	}
	if len(options) > 0 {
		opts = options[0]
	}
	return b.AddProvider(NewConsoleLoggerProvider(opts))
}

// AddStream 添加异步流日志。打开文件失败时错误延迟到 BuildE 返回。
func (b *LoggingBuilder) AddStream(options StreamLoggerOptions) *LoggingBuilder {
	provider, err := NewStreamLoggerProvider(options)
	if err != nil {
		b.mu.Lock()
		b.errs = append(b.errs, err)
		b.mu.Unlock()
		return b
	}
	return b.AddProvider(provider)
}

// AddFile 添加文件日志，json 为 true 时每行一个 JSON 对象
func (b *LoggingBuilder) AddFile(path string, json bool) *LoggingBuilder {
	var formatter Formatter = NewTextFormatter()
	if json {
		formatter = NewJsonFormatter()
	}
	return b.AddStream(StreamLoggerOptions{Path: path, Formatter: formatter})
}

// AddZerolog 添加 zerolog 结构化输出
func (b *LoggingBuilder) AddZerolog(options ZerologOptions) *LoggingBuilder {
	return b.AddProvider(NewZerologProvider(options))
}

// Build 构建日志工厂，忽略 AddStream 的错误
func (b *LoggingBuilder) Build() LoggerFactory {
	factory, _ := b.BuildE()
	return factory
}

// BuildE 构建日志工厂并返回第一个提供者错误
func (b *LoggingBuilder) BuildE() (LoggerFactory, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	factory := &loggerFactory{
		providers:    make([]LoggerProvider, 0, len(b.providers)),
		minimumLevel: b.minimumLevel,
	}
	for _, provider := range b.providers {
		factory.AddProvider(provider)
	}

	if len(b.errs) > 0 {
		return factory, b.errs[0]
	}
	return factory, nil
}

// Options 对应配置文件中的 logging 段
type Options struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text | json | zerolog
	File   string `json:"file" yaml:"file"`
	Color  bool   `json:"color" yaml:"color"`
}

// NewFactory 按配置构建日志工厂。
// 控制台总是启用；File 非空时额外写文件。
func NewFactory(opts Options) (LoggerFactory, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	builder := NewLoggingBuilder().SetMinimumLevel(level)
	switch opts.Format {
	case "", "text":
		builder.AddConsole(ConsoleLoggerOptions{
			IncludeTimestamp: true,
			TimestampFormat:  "2006-01-02 15:04:05",
			ColorOutput:      opts.Color,
			Output:           os.Stdout,
		})
	case "json":
		builder.AddStream(StreamLoggerOptions{Output: os.Stdout, Formatter: NewJsonFormatter()})
	case "zerolog":
		builder.AddZerolog(ZerologOptions{Output: os.Stdout})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	if opts.File != "" {
		builder.AddFile(opts.File, opts.Format == "json" || opts.Format == "zerolog")
	}
	return builder.BuildE()
}
