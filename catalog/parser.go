package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocrud/injector/di"
)

const productColumns = 5

// CSVParser 解析 id,name,category,description,price 格式的行。
// 字段可以用双引号包裹以包含逗号。
type CSVParser struct {
	di.Component
	validate *validator.Validate
}

// NewCSVParser 创建 CSVParser
func NewCSVParser() *CSVParser {
	return &CSVParser{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// IsHeader 判断一行是否为表头
func IsHeader(line string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "id,")
}

func (p *CSVParser) Parse(line string) (Product, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = productColumns
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
			return Product{}, fmt.Errorf("expected %d columns", productColumns)
		}
		return Product{}, fmt.Errorf("malformed line: %w", err)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return Product{}, fmt.Errorf("invalid price %q", record[4])
	}

	product := Product{
		ID:          strings.TrimSpace(record[0]),
		Name:        strings.TrimSpace(record[1]),
		Category:    strings.TrimSpace(record[2]),
		Description: strings.TrimSpace(record[3]),
		Price:       price,
	}
	if err := p.validate.Struct(product); err != nil {
		return Product{}, validationError(err)
	}
	return product, nil
}

// validationError 把 validator 的错误压缩成一行
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return errors.New("invalid product: " + strings.Join(parts, ", "))
}
