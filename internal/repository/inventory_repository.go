package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

// 在庫書き込み1回分。
// stock / color_variants / in_stock は必ず同じUPDATEで書く（部分更新禁止）。
type StockWrite struct {
	ProductID     int64
	PrevVersion   int64
	Stock         int64
	ColorVariants []model.ColorVariant
	InStock       bool
}

type InventoryRepository interface {
	// versionがPrevVersionのままの行だけ更新し、versionを進める。
	// 行が消えていればErrNotFound、他者が先に書けばErrVersionConflict。
	WriteStockGuarded(ctx context.Context, w StockWrite) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error

	// 商品ごとの履歴一覧
	ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.StockAdjustment, error)
}
