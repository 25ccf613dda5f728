package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// カートはセッション値として読み→直して→保存する（グローバルに持たない）。
// 同一セッションの同時更新はlast-write-winsで許容する。
type CartUsecase struct {
	store       repo.CartStore
	productRepo repo.ProductRepository
}

func NewCartUsecase(store repo.CartStore, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		store:       store,
		productRepo: productRepo,
	}
}

// ParseQuantity は数量パラメータを正規化する。
// 未指定・数値でない場合は1（エラーにしない）。
// 負数はそのまま返し、Update側の「0以下は行削除」に乗せる。
func ParseQuantity(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 1
	}
	return v
}

// カートの1行。商品の現在情報と合流済み。
type CartLine struct {
	Product  model.Product   `json:"product"`
	Quantity int64           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartSummary struct {
	Items   []CartLine      `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Message string          `json:"message,omitempty"`
}

// GetCart はカートの表示用サマリを返す（読み取りのみ、カートは変更しない）。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartSummary, error) {
	cart, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}
	return u.buildSummary(ctx, cart, "")
}

// Add はワンクリック追加。無ければ数量1で入れ、あれば+1。
// このパスは在庫チェックを行わない（数量指定側だけが検証する）。
func (u *CartUsecase) Add(ctx context.Context, sessionID string, productID int64) (CartSummary, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}

	cart, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}

	cart.Add(p.ID, 1)

	if err := u.saveCart(ctx, sessionID, cart); err != nil {
		return CartSummary{}, err
	}

	msg := fmt.Sprintf("product %q added to cart", p.Name)
	return u.buildSummary(ctx, cart, msg)
}

// AddWithQuantity は数量指定の追加。
// 要求数量が現在の在庫を超える場合はカートを変更せずエラー（残数を通知）。
// 既にある商品は数量を加算する（置き換えではない）。
func (u *CartUsecase) AddWithQuantity(ctx context.Context, sessionID string, productID int64, rawQty string) (CartSummary, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}

	qty := ParseQuantity(rawQty)
	if qty < 1 {
		qty = 1
	}

	if qty > p.Stock {
		return CartSummary{}, NewHTTPError(http.StatusConflict, fmt.Sprintf("only %d units available", p.Stock))
	}

	cart, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}

	cart.Add(p.ID, qty)

	if err := u.saveCart(ctx, sessionID, cart); err != nil {
		return CartSummary{}, err
	}

	msg := fmt.Sprintf("%d unit(s) of %q added to cart", qty, p.Name)
	return u.buildSummary(ctx, cart, msg)
}

// Remove は行削除。カートに無い商品はエラー（状態は変えない）。
func (u *CartUsecase) Remove(ctx context.Context, sessionID string, productID int64) (CartSummary, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}

	cart, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}

	if !cart.Has(p.ID) {
		return CartSummary{}, NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %q is not in the cart", p.Name))
	}

	cart.Remove(p.ID)

	if err := u.saveCart(ctx, sessionID, cart); err != nil {
		return CartSummary{}, err
	}

	msg := fmt.Sprintf("product %q removed from cart", p.Name)
	return u.buildSummary(ctx, cart, msg)
}

// Update は数量の置き換え（加算しない）。在庫チェックなし。
// 0以下なら行削除（無ければ何もしない）。
func (u *CartUsecase) Update(ctx context.Context, sessionID string, productID int64, rawQty string) (CartSummary, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}

	qty := ParseQuantity(rawQty)

	cart, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return CartSummary{}, err
	}

	var msg string
	if qty > 0 {
		cart.Set(p.ID, qty)
		msg = fmt.Sprintf("quantity of %q updated", p.Name)
	} else {
		if cart.Has(p.ID) {
			msg = fmt.Sprintf("product %q removed from cart", p.Name)
		}
		cart.Remove(p.ID)
	}

	if err := u.saveCart(ctx, sessionID, cart); err != nil {
		return CartSummary{}, err
	}

	return u.buildSummary(ctx, cart, msg)
}

func (u *CartUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *CartUsecase) loadCart(ctx context.Context, sessionID string) (model.Cart, error) {
	if sessionID == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "missing session")
	}

	cart, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return cart, nil
}

func (u *CartUsecase) saveCart(ctx context.Context, sessionID string, cart model.Cart) error {
	if err := u.store.Save(ctx, sessionID, cart); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// buildSummary はカートと商品の現在情報を合流させてサマリを作る。
// 削除・非公開になった商品の行はサマリから落とすだけで、
// 保存されたカート自体からは消さない。
func (u *CartUsecase) buildSummary(ctx context.Context, cart model.Cart, message string) (CartSummary, error) {
	products, err := u.productRepo.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return CartSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]CartLine, 0, len(products))
	total := decimal.Zero

	for _, p := range products {
		if !p.IsActive {
			continue
		}

		qty := cart.Quantity(p.ID)
		if qty <= 0 {
			continue
		}

		//小計＝現在の単価×数量
		subtotal := p.Price.Mul(decimal.NewFromInt(qty))

		items = append(items, CartLine{
			Product:  p,
			Quantity: qty,
			Subtotal: subtotal,
		})

		total = total.Add(subtotal)
	}

	return CartSummary{Items: items, Total: total, Message: message}, nil
}
