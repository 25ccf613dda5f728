package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 有効カテゴリを公開商品の件数付きで返す。
func (r *CategoryGormRepository) ListActiveWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	var rows []model.CategoryWithCount

	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = ?", true).
		Where("categories.is_active = ?", true).
		Group("categories.id").
		Order("categories.name asc").
		Scan(&rows).Error
	if err != nil {
		return []model.CategoryWithCount{}, err
	}
	return rows, nil
}

// slugで有効カテゴリを取得
func (r *CategoryGormRepository) FindActiveBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category

	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}
