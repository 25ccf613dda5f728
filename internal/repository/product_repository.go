package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（SKU重複など）。トランザクションはロールバック済み。
var ErrConflict = errors.New("conflict")

// 公開商品の価格帯（min/max集計）。商品が無ければ両方nil。
type PriceRange struct {
	Min *decimal.Decimal `json:"min_price"`
	Max *decimal.Decimal `json:"max_price"`
}

// 商品の永続化（保存・取得）だけを約束。
// 一覧はcatalog.Filterの条件をそのままストア側の述語に写す。
type ProductRepository interface {
	// 公開商品をフィルタ・ソート済みで全件返す（ページングは呼び出し側）。
	ListFiltered(ctx context.Context, f catalog.Filter, key catalog.SortKey) ([]model.Product, error)

	// 公開の注目商品をlimit件まで。
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)

	// 同カテゴリの公開商品（自分自身は除く）をlimit件まで。
	ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error)

	FindByID(ctx context.Context, id int64) (model.Product, error)

	// カート合流用の一括取得。見つからないIDは黙って落ちる。
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// 公開商品の価格のmin/max。categoryIDを渡すとそのカテゴリ内に絞る。
	PriceRange(ctx context.Context, categoryID *int64) (PriceRange, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error

	// 物理削除。
	Delete(ctx context.Context, id int64) error
}
