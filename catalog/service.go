package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
)

// DefaultProductService 读取商品文件、写入存储，并通过缓存提供查询。
// 依赖由容器通过槽注入。
type DefaultProductService struct {
	di.Component
	reader FileReader
	parser ProductParser
	store  ProductStore
	cache  ProductCache
	logger logging.Logger
}

// NewDefaultProductService 创建服务，依赖槽稍后由容器填充
func NewDefaultProductService(logger logging.Logger) *DefaultProductService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DefaultProductService{logger: logger.WithCategory("catalog")}
}

// GetAllFromCategory 返回类别下的所有商品，按 ID 排序。
// 缓存读写失败只记录日志，不影响结果。
func (s *DefaultProductService) GetAllFromCategory(ctx context.Context, category string) ([]Product, error) {
	category = strings.TrimSpace(category)

	products, ok, err := s.cache.GetCategory(ctx, category)
	if err != nil {
		s.logger.Warn("Cache read failed", logging.F("category", category), logging.Err(err))
	}
	if ok {
		return products, nil
	}

	products, err = s.store.ByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCategory(ctx, category, products); err != nil {
		s.logger.Warn("Cache write failed", logging.F("category", category), logging.Err(err))
	}
	return products, nil
}

func (s *DefaultProductService) Get(ctx context.Context, id string) (Product, error) {
	return s.store.Get(ctx, strings.TrimSpace(id))
}

// Import 读取整个文件并替换存储中的商品。
// 空行和表头被忽略；无法解析或重复的行被跳过并记录在结果中。
func (s *DefaultProductService) Import(ctx context.Context) (ImportResult, error) {
	lines, err := s.reader.ReadLines(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	products := make([]Product, 0, len(lines))
	seen := make(map[string]int, len(lines))
	headerChecked := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerChecked {
			headerChecked = true
			if IsHeader(line) {
				continue
			}
		}

		lineNo := i + 1
		product, err := s.parser.Parse(line)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, (&ParseError{Line: lineNo, Err: err}).Error())
			continue
		}
		if first, dup := seen[product.ID]; dup {
			result.Skipped++
			result.Errors = append(result.Errors,
				(&ParseError{Line: lineNo, Err: fmt.Errorf("duplicate id %q, first seen on line %d", product.ID, first)}).Error())
			continue
		}
		seen[product.ID] = lineNo
		products = append(products, product)
	}

	if err := s.store.Replace(ctx, products); err != nil {
		return result, err
	}
	result.Imported = len(products)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Cache invalidation failed", logging.Err(err))
	}

	s.logger.Info("Products imported",
		logging.F("imported", result.Imported),
		logging.F("skipped", result.Skipped))
	return result, nil
}
