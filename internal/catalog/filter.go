package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// 一覧の絞り込み条件。
// リクエストパラメータを境界でパースした型で、以降のロジックは文字列を見ない。
type Filter struct {
	Query        string
	CategoryIDs  []int64
	BrandIDs     []int64
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FeaturedOnly bool
	InStockOnly  bool
	OnSaleOnly   bool
}

// ParseFilter はクエリ文字列をFilterへ変換する。
// 壊れた値はエラーにせず黙って捨てる。
func ParseFilter(values url.Values) Filter {
	return Filter{
		Query:        strings.TrimSpace(values.Get("q")),
		CategoryIDs:  parseIDList(values["category"]),
		BrandIDs:     parseIDList(values["brand"]),
		MinPrice:     parsePrice(values.Get("min_price")),
		MaxPrice:     parsePrice(values.Get("max_price")),
		FeaturedOnly: values.Get("featured") == "1",
		InStockOnly:  values.Get("in_stock") == "1",
		OnSaleOnly:   values.Get("on_sale") == "1",
	}
}

func parseIDList(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// 商品1件に対する条件。
type Predicate func(model.Product) bool

// 有効な条件だけをANDで束ねる。
// 公開（is_active=true）は常に最初の条件。
func (f Filter) predicates() []Predicate {
	preds := []Predicate{
		func(p model.Product) bool { return p.IsActive },
	}

	if f.Query != "" {
		preds = append(preds, matchesText(f.Query))
	}
	if len(f.CategoryIDs) > 0 {
		ids := f.CategoryIDs
		preds = append(preds, func(p model.Product) bool {
			return p.CategoryID != nil && containsID(ids, *p.CategoryID)
		})
	}
	if len(f.BrandIDs) > 0 {
		ids := f.BrandIDs
		preds = append(preds, func(p model.Product) bool {
			return p.BrandID != nil && containsID(ids, *p.BrandID)
		})
	}
	if f.MinPrice != nil {
		min := *f.MinPrice
		preds = append(preds, func(p model.Product) bool {
			return p.Price.GreaterThanOrEqual(min)
		})
	}
	if f.MaxPrice != nil {
		max := *f.MaxPrice
		preds = append(preds, func(p model.Product) bool {
			return p.Price.LessThanOrEqual(max)
		})
	}
	if f.FeaturedOnly {
		preds = append(preds, func(p model.Product) bool { return p.IsFeatured })
	}
	if f.InStockOnly {
		preds = append(preds, func(p model.Product) bool { return p.Stock > 0 })
	}
	if f.OnSaleOnly {
		preds = append(preds, func(p model.Product) bool { return p.OnSale() })
	}

	return preds
}

// Matches は全条件のANDを評価する。
func (f Filter) Matches(p model.Product) bool {
	for _, pred := range f.predicates() {
		if !pred(p) {
			return false
		}
	}
	return true
}

// テキスト検索。
// name / description / カテゴリ名 / ブランド名 / SKU のいずれかに
// 大文字小文字を無視した部分一致で当たればOK。
func matchesText(query string) Predicate {
	q := strings.ToLower(query)
	return func(p model.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return true
		}
		if strings.Contains(strings.ToLower(p.Description), q) {
			return true
		}
		if strings.Contains(strings.ToLower(p.SKU), q) {
			return true
		}
		if p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), q) {
			return true
		}
		if p.Brand != nil && strings.Contains(strings.ToLower(p.Brand.Name), q) {
			return true
		}
		return false
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// 並び順のキー。
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNewest    SortKey = "newest"
)

// ParseSort は未知のキーをエラーにせず黙ってname昇順へ落とす。
func ParseSort(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceLow, SortPriceHigh, SortNewest, SortName:
		return SortKey(raw)
	default:
		return SortName
	}
}

// Less は2商品の順序を決める。同値はIDで安定させる。
func (k SortKey) Less(a, b model.Product) bool {
	switch k {
	case SortPriceLow:
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
	case SortPriceHigh:
		if !a.Price.Equal(b.Price) {
			return a.Price.GreaterThan(b.Price)
		}
	case SortNewest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	default:
		an := strings.ToLower(a.Name)
		bn := strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
	}
	return a.ID < b.ID
}

// Apply はメモリ上のコレクションへFilterと並び順を適用する。
// 結合経由で複数回当たっても商品IDで1件にまとめる。
func Apply(products []model.Product, f Filter, key SortKey) []model.Product {
	seen := make(map[int64]bool, len(products))
	out := make([]model.Product, 0, len(products))

	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		if !f.Matches(p) {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return key.Less(out[i], out[j])
	})

	return out
}
