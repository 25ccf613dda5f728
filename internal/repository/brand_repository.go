package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type BrandRepository interface {
	ListActive(ctx context.Context) ([]model.Brand, error)

	// カテゴリ内に公開商品を持つ有効ブランドだけを返す（重複なし）。
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error)
}
