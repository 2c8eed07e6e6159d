package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound 商品不存在
	ErrNotFound = errors.New("catalog: product not found")
	// ErrImportRunning 已有导入正在执行
	ErrImportRunning = errors.New("catalog: import already running")
)

// Product 商品
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;size:64" validate:"required,max=64"`
	Name        string  `json:"name" gorm:"size:200;not null" validate:"required,max=200"`
	Category    string  `json:"category" gorm:"size:100;index;not null" validate:"required,max=100"`
	Description string  `json:"description" gorm:"size:2000" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ParseError 商品文件中无法解析的一行
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImportResult ProductService.Import 的结果
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportReport 一次导入的完整记录，保存到 ImportArchive
type ImportReport struct {
	BatchID    string    `json:"batchId" bson:"batch_id"`
	Trigger    string    `json:"trigger" bson:"trigger"`
	StartedAt  time.Time `json:"startedAt" bson:"started_at"`
	FinishedAt time.Time `json:"finishedAt" bson:"finished_at"`
	Imported   int       `json:"imported" bson:"imported"`
	Skipped    int       `json:"skipped" bson:"skipped"`
	Errors     []string  `json:"errors,omitempty" bson:"errors,omitempty"`
	Failure    string    `json:"failure,omitempty" bson:"failure,omitempty"`
}

// Succeeded 导入是否完成（允许部分行被跳过）
func (r ImportReport) Succeeded() bool {
	return r.Failure == ""
}
