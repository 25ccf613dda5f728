package model

import "strconv"

// セッションに保存するカート。
// キーは商品IDの文字列、値は正の数量。
// グローバルに持たず、必ず値として読み書きする。
type Cart map[string]int64

func NewCart() Cart {
	return Cart{}
}

func cartKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// 商品の現在数量（入っていなければ0）
func (c Cart) Quantity(productID int64) int64 {
	return c[cartKey(productID)]
}

func (c Cart) Has(productID int64) bool {
	_, ok := c[cartKey(productID)]
	return ok
}

// 数量を加算（無ければ新規行）
func (c Cart) Add(productID int64, qty int64) {
	c[cartKey(productID)] += qty
}

// 数量を置き換える（加算ではない）
func (c Cart) Set(productID int64, qty int64) {
	c[cartKey(productID)] = qty
}

func (c Cart) Remove(productID int64) {
	delete(c, cartKey(productID))
}

func (c Cart) Len() int {
	return len(c)
}

// カートに入っている商品IDの一覧。
// 壊れたキー（数値でないもの）は読み飛ばす。
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for k := range c {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
