package model

import "time"

// 商品カテゴリ。slugはURL用（一意）。
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カテゴリ一覧用の読み取りモデル（公開商品の件数付き）。
type CategoryWithCount struct {
	Category     `gorm:"embedded"`
	ProductCount int64 `json:"product_count"`
}
