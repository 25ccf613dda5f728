package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 一意制約違反（SKU重複など）かどうか。
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// 公開商品をcatalog.Filterの条件とソートで全件返す。
// メモリ実装（catalog.Apply）と同じ結果になること。
func (r *ProductGormRepository) ListFiltered(ctx context.Context, f catalog.Filter, key catalog.SortKey) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Preload("Category").
		Preload("Brand")

	// 公開（is_active=true）だけ
	tx = tx.Where("products.is_active = ?", true)

	// テキスト検索。カテゴリ名・ブランド名も対象なのでLEFT JOINし、
	// 結合で膨らんだ分はDISTINCTで商品単位に戻す。
	if f.Query != "" {
		like := "%" + f.Query + "%"
		tx = tx.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Joins("LEFT JOIN brands ON brands.id = products.brand_id").
			Where(
				"products.name ILIKE ? OR products.description ILIKE ? OR products.sku ILIKE ? OR categories.name ILIKE ? OR brands.name ILIKE ?",
				like, like, like, like, like,
			).
			Distinct("products.*")
	}

	if len(f.CategoryIDs) > 0 {
		tx = tx.Where("products.category_id IN ?", f.CategoryIDs)
	}
	if len(f.BrandIDs) > 0 {
		tx = tx.Where("products.brand_id IN ?", f.BrandIDs)
	}

	//価格帯（両端とも含む）
	if f.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *f.MaxPrice)
	}

	if f.FeaturedOnly {
		tx = tx.Where("products.is_featured = ?", true)
	}
	if f.InStockOnly {
		tx = tx.Where("products.stock > 0")
	}
	if f.OnSaleOnly {
		tx = tx.Where("products.sale_price IS NOT NULL")
	}

	//sort
	switch key {
	case catalog.SortPriceLow:
		tx = tx.Order("products.price asc").Order("products.id asc")
	case catalog.SortPriceHigh:
		tx = tx.Order("products.price desc").Order("products.id desc")
	case catalog.SortNewest:
		tx = tx.Order("products.created_at desc").Order("products.id desc")
	default:
		tx = tx.Order("products.name asc").Order("products.id asc")
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 公開の注目商品をlimit件まで。
func (r *ProductGormRepository) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 同カテゴリの公開商品（自分自身は除く）。
func (r *ProductGormRepository) ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Brand").
		Where("category_id = ? AND is_active = ? AND id <> ?", categoryID, true, excludeID).
		Order("id asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得（非公開も含む。公開判定は呼び出し側）。
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// カート合流用の一括取得。存在しないIDは結果から落ちるだけ。
func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 公開商品の価格のmin/max集計。
func (r *ProductGormRepository) PriceRange(ctx context.Context, categoryID *int64) (repo.PriceRange, error) {
	var row struct {
		Min *decimal.Decimal
		Max *decimal.Decimal
	}

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)
	if categoryID != nil {
		tx = tx.Where("category_id = ?", *categoryID)
	}

	if err := tx.Select("MIN(price) AS min, MAX(price) AS max").Scan(&row).Error; err != nil {
		return repo.PriceRange{}, err
	}
	return repo.PriceRange{Min: row.Min, Max: row.Max}, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Product{}, repo.ErrConflict
		}
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"sku":         p.SKU,
		"category_id": p.CategoryID,
		"brand_id":    p.BrandID,
		"price":       p.Price,
		"sale_price":  p.SalePrice,
		"stock":       p.Stock,
		"is_active":   p.IsActive,
		"is_featured": p.IsFeatured,
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repo.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品の物理削除
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
