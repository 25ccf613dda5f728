package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	// 有効カテゴリを公開商品の件数付きで返す。
	ListActiveWithCounts(ctx context.Context) ([]model.CategoryWithCount, error)

	FindActiveBySlug(ctx context.Context, slug string) (model.Category, error)
}
