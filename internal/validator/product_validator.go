package validator

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired = errors.New("name required")

	ErrSKURequired = errors.New("sku required")

	ErrNegativePrice = errors.New("price must be >= 0")

	ErrNegativeStock = errors.New("stock must be >= 0")

	// sale_priceは通常価格より安くなければならない
	ErrSalePriceNotLower = errors.New("sale_price must be less than price")
)

// スタッフ向け商品フォームの入力。
type ProductInput struct {
	Name      string
	SKU       string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	Stock     int64
}

// フォームレベルの検証。最初に引っかかったエラーを返す。
func ValidateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.SKU) == "" {
		return ErrSKURequired
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.SalePrice != nil && !in.SalePrice.LessThan(in.Price) {
		return ErrSalePriceNotLower
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
