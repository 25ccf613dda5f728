package catalog

import (
	"strconv"
	"strings"
)

// 1ページの商品数。
const DefaultPageSize = 12

type Page struct {
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_results"`
	TotalPages int `json:"total_pages"`
}

// Paginate は (件数, ページサイズ, 生のpageパラメータ) だけで決まる純関数。
// 数値でない・1未満 → 1ページ目。最終ページ超過 → 最終ページ。
// 0件でも必ず1ページ（空ページ）扱い。
func Paginate(totalItems, size int, raw string) Page {
	if size < 1 {
		size = DefaultPageSize
	}

	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Page{
		Number:     page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Bounds はこのページのスライス範囲 [start, end) を返す。
func (p Page) Bounds() (int, int) {
	start := (p.Number - 1) * p.Size
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end := start + p.Size
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}
