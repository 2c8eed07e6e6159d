package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// AsyncWriter 异步日志写入器，格式化和写入都在后台协程完成
type AsyncWriter struct {
	writer     io.Writer
	formatter  Formatter
	entryCh    chan *LogEntry
	wg         sync.WaitGroup
	closeOnce  sync.Once
	closed     chan struct{}
	errHandler func(error)
}

// NewAsyncWriter 创建新的异步写入器
func NewAsyncWriter(writer io.Writer, formatter Formatter, bufferSize int) *AsyncWriter {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	w := &AsyncWriter{
		writer:    writer,
		formatter: formatter,
		entryCh:   make(chan *LogEntry, bufferSize),
		closed:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.process()

	return w
}

// WriteLog 写入日志条目。队列满时阻塞，保证不丢日志；关闭后的写入被丢弃。
func (w *AsyncWriter) WriteLog(entry *LogEntry) {
	select {
	case <-w.closed:
		return
	default:
	}

	select {
	case w.entryCh <- entry:
	case <-w.closed:
	}
}

// Close 排空队列后关闭写入器。可重复调用。
func (w *AsyncWriter) Close() error {
	w.closeOnce.Do(func() {
		close(w.closed)
	})
	w.wg.Wait()
	return nil
}

// SetErrorHandler 设置错误处理函数，必须在第一次写入之前调用
func (w *AsyncWriter) SetErrorHandler(handler func(error)) {
	w.errHandler = handler
}

func (w *AsyncWriter) process() {
	defer w.wg.Done()

	for {
		select {
		case entry := <-w.entryCh:
			w.write(entry)
		case <-w.closed:
			for {
				select {
				case entry := <-w.entryCh:
					w.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (w *AsyncWriter) write(entry *LogEntry) {
	data, err := w.formatter.Format(entry)
	if err != nil {
		w.report(fmt.Errorf("format: %w", err))
		return
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if _, err := w.writer.Write(data); err != nil {
		w.report(fmt.Errorf("write: %w", err))
	}
}

func (w *AsyncWriter) report(err error) {
	if w.errHandler != nil {
		w.errHandler(err)
		return
	}
	fmt.Fprintf(os.Stderr, "logging: async writer %v\n", err)
}
