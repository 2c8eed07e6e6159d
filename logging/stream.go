package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// StreamLoggerOptions 流日志选项
type StreamLoggerOptions struct {
	// Output 为空时按 Path 打开文件（追加写）
	Output io.Writer
	Path   string
	// Formatter 默认为不带颜色的 TextFormatter
	Formatter  Formatter
	BufferSize int
}

// StreamLoggerProvider 通过 AsyncWriter 异步写入任意 io.Writer
type StreamLoggerProvider struct {
	writer       *AsyncWriter
	file         *os.File
	minimumLevel LogLevel
	mu           sync.RWMutex
}

// NewStreamLoggerProvider 创建流日志提供者
func NewStreamLoggerProvider(options StreamLoggerOptions) (*StreamLoggerProvider, error) {
	p := &StreamLoggerProvider{minimumLevel: LogLevelInfo}

	out := options.Output
	if out == nil {
		if options.Path == "" {
			return nil, fmt.Errorf("logging: stream provider needs an output or a path")
		}
		if err := os.MkdirAll(filepath.Dir(options.Path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		file, err := os.OpenFile(options.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		p.file = file
		out = file
	}

	formatter := options.Formatter
	if formatter == nil {
		formatter = NewTextFormatter()
	}
	p.writer = NewAsyncWriter(out, formatter, options.BufferSize)
	return p, nil
}

func (p *StreamLoggerProvider) CreateLogger(category string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &entryLogger{sink: p, category: category, minimumLevel: p.minimumLevel}
}

func (p *StreamLoggerProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

func (p *StreamLoggerProvider) emit(entry *LogEntry) {
	p.writer.WriteLog(entry)
}

// Close 刷新队列并关闭自己打开的文件
func (p *StreamLoggerProvider) Close() error {
	p.writer.Close()
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
