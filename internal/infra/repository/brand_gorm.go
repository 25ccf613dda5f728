package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
)

type BrandGormRepository struct {
	db *gorm.DB
}

// DI
func NewBrandGormRepository(db *gorm.DB) *BrandGormRepository {
	return &BrandGormRepository{db: db}
}

func (r *BrandGormRepository) ListActive(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&brands).Error
	if err != nil {
		return []model.Brand{}, err
	}
	return brands, nil
}

// カテゴリ内に公開商品を持つ有効ブランドだけ（重複なし）。
func (r *BrandGormRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error) {
	var brands []model.Brand

	err := r.db.WithContext(ctx).Model(&model.Brand{}).
		Distinct("brands.*").
		Joins("JOIN products ON products.brand_id = brands.id").
		Where("products.category_id = ? AND products.is_active = ? AND brands.is_active = ?", categoryID, true, true).
		Order("brands.name asc").
		Find(&brands).Error
	if err != nil {
		return []model.Brand{}, err
	}
	return brands, nil
}
