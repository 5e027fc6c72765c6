package model

import (
	"time"

	"gorm.io/gorm"
)

// 色ごとのSKU。価格・在庫を商品本体と独立に持てる。
type ColorVariant struct {
	Color         string `json:"color"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discount_price,omitempty"`
	Stock         *int64 `json:"stock,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
}

type Product struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Category      string         `gorm:"type:varchar(100);index" json:"category"`
	Price         int64          `gorm:"not null" json:"price"`
	DiscountPrice *int64         `json:"discount_price,omitempty"`
	Stock         int64          `gorm:"not null" json:"stock"`
	ColorVariants []ColorVariant `gorm:"type:jsonb;serializer:json" json:"color_variants,omitempty"`
	InStock       bool           `gorm:"not null;default:false" json:"in_stock"`
	Version       int64          `gorm:"not null;default:0" json:"-"`
	IsActive      bool           `gorm:"not null;default:false" json:"is_active"`
	ImageURL      string         `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) HasVariants() bool {
	return len(p.ColorVariants) > 0
}

// 色名でバリアントを探す
func (p *Product) FindVariant(color string) (int, bool) {
	for i := range p.ColorVariants {
		if p.ColorVariants[i].Color == color {
			return i, true
		}
	}
	return -1, false
}

// in_stockは常に導出値。
// バリアント持ちは「どれかの在庫 > 0」、それ以外は「stock > 0」。
func (p *Product) DeriveInStock() bool {
	if p.HasVariants() {
		for i := range p.ColorVariants {
			s := p.ColorVariants[i].Stock
			if s != nil && *s > 0 {
				return true
			}
		}
		return false
	}
	return p.Stock > 0
}
