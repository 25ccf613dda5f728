package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// セッション単位のカート保存の約束。
// Getはキーが無ければ空のカートを返す（エラーにしない）。
type CartStore interface {
	Get(ctx context.Context, sessionID string) (model.Cart, error)
	Save(ctx context.Context, sessionID string, cart model.Cart) error
}
