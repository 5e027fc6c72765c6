package pricing

import (
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

type CartTotals struct {
	TotalItemCount int64 `json:"total_item_count"`
	Subtotal       int64 `json:"subtotal"`
	Total          int64 `json:"total"`
}

// 明細の単価。優先順位は固定:
// バリアント割引価格 > バリアント価格 > 商品割引価格 > 商品価格。
// どれも無ければ0（データ異常は上流で検知する）。
func UnitPrice(li model.CartLineItem) int64 {
	if li.Variant != nil {
		if li.Variant.DiscountPrice != nil && *li.Variant.DiscountPrice > 0 {
			return *li.Variant.DiscountPrice
		}
		if li.Variant.Price > 0 {
			return li.Variant.Price
		}
	}
	if li.DiscountPrice != nil && *li.DiscountPrice > 0 {
		return *li.DiscountPrice
	}
	if li.Price > 0 {
		return li.Price
	}
	return 0
}

// ComputeCartTotals は純粋関数。副作用もI/Oも無し。
// 壊れた明細（商品参照・タイトル欠落）は集計から除外する。
func ComputeCartTotals(lines []model.CartLineItem, delivery *model.DeliveryMethod) CartTotals {
	var t CartTotals

	for _, li := range lines {
		if li.IsMalformed() {
			continue
		}
		if li.Quantity <= 0 {
			continue
		}

		t.TotalItemCount += li.Quantity
		t.Subtotal += UnitPrice(li) * li.Quantity
	}

	t.Total = t.Subtotal
	if delivery != nil {
		t.Total += delivery.Price
	}
	return t
}
