package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	SKU         string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"sku"`
	CategoryID  *int64           `gorm:"index" json:"category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID     *int64           `gorm:"index" json:"brand_id"`
	Brand       *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Price       decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	SalePrice   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"sale_price"`
	Stock       int64            `gorm:"not null" json:"stock"`
	IsActive    bool             `gorm:"not null;default:false" json:"is_active"`
	IsFeatured  bool             `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// セール中かどうか（sale_priceが入っていればセール扱い）
func (p Product) OnSale() bool {
	return p.SalePrice != nil
}

// セール中の割引額（通常価格 - セール価格）。セール中でなければゼロ。
func (p Product) Savings() decimal.Decimal {
	if p.SalePrice == nil {
		return decimal.Zero
	}
	return p.Price.Sub(*p.SalePrice)
}
