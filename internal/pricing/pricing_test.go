package pricing

import (
	"testing"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func i64(v int64) *int64 { return &v }

// =====================
// UnitPrice 優先順位
// =====================

func TestUnitPrice_VariantDiscountWins(t *testing.T) {
	li := model.CartLineItem{
		ProductID:     1,
		Title:         "Mug",
		Price:         1200,
		DiscountPrice: i64(1000),
		Variant: &model.ColorVariant{
			Color:         "red",
			Price:         1100,
			DiscountPrice: i64(900),
		},
	}
	assert.Equal(t, int64(900), UnitPrice(li))
}

func TestUnitPrice_VariantPrice_WhenNoVariantDiscount(t *testing.T) {
	li := model.CartLineItem{
		ProductID:     1,
		Title:         "Mug",
		Price:         1200,
		DiscountPrice: i64(1000),
		Variant:       &model.ColorVariant{Color: "red", Price: 1100},
	}
	assert.Equal(t, int64(1100), UnitPrice(li))
}

func TestUnitPrice_ProductDiscount_WhenVariantPricesZero(t *testing.T) {
	// バリアント価格が0（未設定）なら商品側にフォールバック
	li := model.CartLineItem{
		ProductID:     1,
		Title:         "Mug",
		Price:         1200,
		DiscountPrice: i64(500),
		Variant:       &model.ColorVariant{Color: "red"},
	}
	assert.Equal(t, int64(500), UnitPrice(li))
}

func TestUnitPrice_ProductPrice_WhenNoDiscounts(t *testing.T) {
	li := model.CartLineItem{ProductID: 1, Title: "Mug", Price: 1200}
	assert.Equal(t, int64(1200), UnitPrice(li))
}

func TestUnitPrice_ZeroDiscountIgnored(t *testing.T) {
	// 0は「割引なし」扱い
	li := model.CartLineItem{
		ProductID:     1,
		Title:         "Mug",
		Price:         1200,
		DiscountPrice: i64(0),
	}
	assert.Equal(t, int64(1200), UnitPrice(li))
}

func TestUnitPrice_AllZero(t *testing.T) {
	li := model.CartLineItem{ProductID: 1, Title: "Mug"}
	assert.Equal(t, int64(0), UnitPrice(li))
}

// =====================
// ComputeCartTotals
// =====================

func TestComputeCartTotals_EmptyCart(t *testing.T) {
	got := ComputeCartTotals(nil, nil)
	assert.Equal(t, CartTotals{}, got)
}

func TestComputeCartTotals_EmptyCart_WithDelivery(t *testing.T) {
	// 空でも配送料は加算される
	d := &model.DeliveryMethod{ID: 1, Name: "Courier", Price: 300}
	got := ComputeCartTotals(nil, d)
	assert.Equal(t, int64(0), got.Subtotal)
	assert.Equal(t, int64(300), got.Total)
}

func TestComputeCartTotals_VariantDiscount(t *testing.T) {
	lines := []model.CartLineItem{
		{
			ProductID: 1,
			Title:     "Mug",
			Price:     1200,
			Quantity:  2,
			Variant:   &model.ColorVariant{Color: "red", Price: 1100, DiscountPrice: i64(900)},
		},
	}
	got := ComputeCartTotals(lines, nil)
	assert.Equal(t, int64(2), got.TotalItemCount)
	assert.Equal(t, int64(1800), got.Subtotal)
	assert.Equal(t, int64(1800), got.Total)
}

func TestComputeCartTotals_ProductDiscount(t *testing.T) {
	lines := []model.CartLineItem{
		{ProductID: 1, Title: "Mug", Price: 700, DiscountPrice: i64(500), Quantity: 3},
	}
	got := ComputeCartTotals(lines, nil)
	assert.Equal(t, int64(3), got.TotalItemCount)
	assert.Equal(t, int64(1500), got.Subtotal)
}

func TestComputeCartTotals_MalformedLinesExcluded(t *testing.T) {
	lines := []model.CartLineItem{
		{ProductID: 1, Title: "Mug", Price: 100, Quantity: 1},
		{ProductID: 0, Title: "Broken", Price: 999, Quantity: 5},
		{ProductID: 2, Title: "", Price: 999, Quantity: 5},
	}
	got := ComputeCartTotals(lines, nil)
	assert.Equal(t, int64(1), got.TotalItemCount)
	assert.Equal(t, int64(100), got.Subtotal)
}

func TestComputeCartTotals_NonPositiveQuantityExcluded(t *testing.T) {
	lines := []model.CartLineItem{
		{ProductID: 1, Title: "Mug", Price: 100, Quantity: 0},
		{ProductID: 2, Title: "Cup", Price: 100, Quantity: -2},
		{ProductID: 3, Title: "Pot", Price: 100, Quantity: 1},
	}
	got := ComputeCartTotals(lines, nil)
	assert.Equal(t, int64(1), got.TotalItemCount)
	assert.Equal(t, int64(100), got.Subtotal)
}

func TestComputeCartTotals_DeliveryAdded(t *testing.T) {
	lines := []model.CartLineItem{
		{ProductID: 1, Title: "Mug", Price: 1000, Quantity: 2},
	}
	d := &model.DeliveryMethod{ID: 1, Name: "Courier", Price: 350}

	got := ComputeCartTotals(lines, d)
	assert.Equal(t, int64(2000), got.Subtotal)
	assert.Equal(t, int64(2350), got.Total)
}

func TestComputeCartTotals_MixedLines(t *testing.T) {
	lines := []model.CartLineItem{
		{ProductID: 1, Title: "Mug", Price: 1200, Quantity: 2,
			Variant: &model.ColorVariant{Color: "red", DiscountPrice: i64(900), Price: 1100}},
		{ProductID: 2, Title: "Cup", Price: 700, DiscountPrice: i64(500), Quantity: 3},
		{ProductID: 0, Title: "Broken", Price: 999, Quantity: 9},
	}
	got := ComputeCartTotals(lines, &model.DeliveryMethod{ID: 1, Price: 300})
	assert.Equal(t, int64(5), got.TotalItemCount)
	assert.Equal(t, int64(3300), got.Subtotal)
	assert.Equal(t, int64(3600), got.Total)
}
