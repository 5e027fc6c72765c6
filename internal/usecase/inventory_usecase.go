package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"go.uber.org/zap"
)

// version競合時の再試行回数
const stockWriteRetries = 3

type InventoryUsecase struct {
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	logger    *zap.Logger
}

// DI
func NewInventoryUsecase(
	products repo.ProductRepository,
	inventory repo.InventoryRepository,
	logger *zap.Logger,
) *InventoryUsecase {
	return &InventoryUsecase{
		products:  products,
		inventory: inventory,
		logger:    logger,
	}
}

type AdjustStockInput struct {
	ProductID    int64
	QuantitySold int64
	Color        string // 空なら商品本体の在庫
	ActorUserID  int64  // 0はシステム（注文確定）
	Reason       string
}

type AdjustStockOutput struct {
	NewQuantity int64 `json:"new_quantity"`
	InStock     bool  `json:"in_stock"`
}

// AdjustStock は販売数ぶん在庫を減らす（下限0）。
// in_stockは毎回導出し直し、在庫と同じ1回の書き込みで保存する。
// 同じ呼び出しを2回すれば2回減る（冪等ではない）。重複ガードは呼ぶ側の責務。
func (u *InventoryUsecase) AdjustStock(ctx context.Context, in AdjustStockInput) (AdjustStockOutput, error) {
	if in.ProductID <= 0 {
		return AdjustStockOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}
	if in.QuantitySold < 0 {
		return AdjustStockOutput{}, apperr.New(apperr.KindInvalidArgument, "quantity must be >= 0")
	}

	// 読み→計算→条件付き書き。versionが進んでいたら読み直す。
	for attempt := 0; attempt < stockWriteRetries; attempt++ {
		p, err := u.products.FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return AdjustStockOutput{}, apperr.New(apperr.KindNotFound, "product not found")
		}
		if err != nil {
			return AdjustStockOutput{}, apperr.Wrap(apperr.KindPersistence, "read product", err)
		}

		w, newQty, delta, err := applyStockSale(p, in.Color, in.QuantitySold)
		if err != nil {
			return AdjustStockOutput{}, err
		}

		err = u.inventory.WriteStockGuarded(ctx, w)
		if err == repo.ErrVersionConflict {
			u.logger.Warn("stock write conflict, retrying",
				zap.Int64("product_id", in.ProductID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err == repo.ErrNotFound {
			return AdjustStockOutput{}, apperr.New(apperr.KindNotFound, "product not found")
		}
		if err != nil {
			return AdjustStockOutput{}, apperr.Wrap(apperr.KindPersistence, "write stock", err)
		}

		//履歴は補助情報。失敗しても在庫更新は取り消さない。
		if delta != 0 {
			reason := strings.TrimSpace(in.Reason)
			if reason == "" {
				reason = "sale"
			}
			adj := model.StockAdjustment{
				ProductID:   in.ProductID,
				Color:       in.Color,
				ActorUserID: in.ActorUserID,
				Delta:       delta,
				Reason:      reason,
			}
			if err := u.inventory.CreateAdjustment(ctx, adj); err != nil {
				u.logger.Error("stock adjustment history write failed",
					zap.Int64("product_id", in.ProductID),
					zap.Error(err),
				)
			}
		}

		return AdjustStockOutput{NewQuantity: newQty, InStock: w.InStock}, nil
	}

	return AdjustStockOutput{}, apperr.New(apperr.KindConflict, "stock update conflict")
}

// 商品ごとの調整履歴
func (u *InventoryUsecase) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.StockAdjustment, error) {
	if productID <= 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}

	items, err := u.inventory.ListAdjustments(ctx, productID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list adjustments", err)
	}
	return items, nil
}

// applyStockSale は減算後の在庫書き込み内容を組み立てる純粋な計算。
// 商品本体かバリアント1色だけを減らし、兄弟バリアントには触らない。
func applyStockSale(p model.Product, color string, qtySold int64) (repo.StockWrite, int64, int64, error) {
	w := repo.StockWrite{
		ProductID:   p.ID,
		PrevVersion: p.Version,
	}

	if color != "" {
		idx, ok := p.FindVariant(color)
		if !ok {
			return repo.StockWrite{}, 0, 0, apperr.New(apperr.KindNotFound, "color variant not found")
		}

		variants := make([]model.ColorVariant, len(p.ColorVariants))
		copy(variants, p.ColorVariants)

		var cur int64
		if variants[idx].Stock != nil {
			cur = *variants[idx].Stock
		}

		newQty := cur - qtySold
		if newQty < 0 {
			newQty = 0
		}
		q := newQty
		variants[idx].Stock = &q

		w.Stock = p.Stock
		w.ColorVariants = variants

		derived := p
		derived.ColorVariants = variants
		w.InStock = derived.DeriveInStock()

		return w, newQty, newQty - cur, nil
	}

	newQty := p.Stock - qtySold
	if newQty < 0 {
		newQty = 0
	}

	w.Stock = newQty
	w.ColorVariants = p.ColorVariants

	derived := p
	derived.Stock = newQty
	w.InStock = derived.DeriveInStock()

	return w, newQty, newQty - p.Stock, nil
}
