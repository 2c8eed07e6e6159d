package logging

import (
	"time"
)

// Formatter 把一条日志编码成一行输出
type Formatter interface {
	// Format 的返回值不会被复用，调用方可以直接持有
	Format(entry *LogEntry) ([]byte, error)
}

// LogEntry 是写往 sink 的一条记录。
// Category 为空表示根 logger，Fields 保持调用时的顺序。
type LogEntry struct {
	Time     time.Time
	Level    LogLevel
	Category string
	Message  string
	Fields   []Field
}
