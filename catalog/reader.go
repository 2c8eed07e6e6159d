package catalog

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/gocrud/injector/di"
)

// LineFileReader 按行读取本地文件
type LineFileReader struct {
	di.Component
	path string
}

// NewLineFileReader 创建读取 path 的 FileReader
func NewLineFileReader(path string) *LineFileReader {
	return &LineFileReader{path: path}
}

// Path 返回文件路径
func (r *LineFileReader) Path() string {
	return r.path
}

func (r *LineFileReader) ReadLines(ctx context.Context) ([]string, error) {
	if r.path == "" {
		return nil, fmt.Errorf("catalog: product file is not configured")
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open product file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(lines)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read product file: %w", err)
	}
	return lines, nil
}
