package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocrud/injector/di"
	"gorm.io/gorm"
)

// SQLStore 基于 gorm 的商品存储
type SQLStore struct {
	di.Component
	db *gorm.DB
}

// NewSQLStore 创建存储并迁移 products 表
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("catalog: sql store needs a database")
	}
	if err := db.AutoMigrate(&Product{}); err != nil {
		return nil, fmt.Errorf("catalog: migrate products: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Replace(ctx context.Context, products []Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Product{}).Error; err != nil {
			return fmt.Errorf("catalog: clear products: %w", err)
		}
		if len(products) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(products, 200).Error; err != nil {
			return fmt.Errorf("catalog: insert products: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) ByCategory(ctx context.Context, category string) ([]Product, error) {
	result := make([]Product, 0)
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: query category %q: %w", category, err)
	}
	return result, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("catalog: get product %q: %w", id, err)
	}
	return p, nil
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("catalog: count products: %w", err)
	}
	return n, nil
}
