package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// stock / color_variants / in_stock を1回のUPDATEで書く。
// versionの一致を条件にして、同時更新のロストアップデートを弾く。
func (r *InventoryGormRepository) WriteStockGuarded(ctx context.Context, w repo.StockWrite) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND version = ?", w.ProductID, w.PrevVersion).
		Updates(map[string]interface{}{
			"stock":          w.Stock,
			"color_variants": w.ColorVariants,
			"in_stock":       w.InStock,
			"version":        gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 行が無いのか、versionが進んだのかを区別する
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.Product{}).
			Where("id = ?", w.ProductID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}
		return repo.ErrVersionConflict
	}
	return nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}

// 商品ごとの履歴一覧（新しい順）
func (r *InventoryGormRepository) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.StockAdjustment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var items []model.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.StockAdjustment{}, err
	}
	return items, nil
}
