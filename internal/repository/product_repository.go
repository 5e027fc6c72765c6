package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 楽観ロックの不一致（在庫の同時更新）
var ErrVersionConflict = errors.New("version conflict")

// 一覧検索
type ProductListQuery struct {
	Page        int
	Limit       int
	Q           string
	Category    string
	MinPrice    *int64
	MaxPrice    *int64
	Color       string
	InStockOnly bool
	Sort        string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
