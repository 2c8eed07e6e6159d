package logging

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// TextFormatter 文本格式化器
//
//	2026-01-02 15:04:05 INFO [catalog] Import finished {batch=..., products=12}
type TextFormatter struct {
	IncludeTimestamp bool
	TimestampFormat  string
	ColorOutput      bool
}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		IncludeTimestamp: true,
		TimestampFormat:  "2006-01-02 15:04:05",
	}
}

// Format 格式化日志
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	buffer := getBuffer()
	defer putBuffer(buffer)

	if f.IncludeTimestamp {
		buffer.WriteString(entry.Time.Format(f.TimestampFormat))
		buffer.WriteByte(' ')
	}

	level := entry.Level.String()
	if f.ColorOutput {
		level = colorize(entry.Level, level)
	}
	buffer.WriteString(level)

	if entry.Category != "" {
		fmt.Fprintf(buffer, " [%s]", entry.Category)
	}
	buffer.WriteByte(' ')
	buffer.WriteString(entry.Message)
	writeTextFields(buffer, entry.Fields)
	buffer.WriteByte('\n')

	// buffer 会被复用，这里必须复制
	result := make([]byte, buffer.Len())
	copy(result, buffer.Bytes())
	return result, nil
}

// writeTextFields 写入 {k=v, ...}；含空白或引号的字符串值加引号
func writeTextFields(buffer *bytes.Buffer, fields []Field) {
	if len(fields) == 0 {
		return
	}
	buffer.WriteString(" {")
	for i, field := range fields {
		if i > 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString(field.Key)
		buffer.WriteByte('=')

		value := fmt.Sprint(fieldValue(field.Value))
		if strings.ContainsAny(value, " \t\n\"") {
			value = strconv.Quote(value)
		}
		buffer.WriteString(value)
	}
	buffer.WriteByte('}')
}
