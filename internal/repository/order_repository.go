package repository

import (
	"context"
	"time"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

// 管理画面の注文一覧の絞り込み
type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status model.OrderStatus
	Email  string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// ゲスト注文の照会（ID＋メールの組で本人確認の代わり）
	FindByIDAndEmail(ctx context.Context, orderID int64, email string) (model.Order, error)

	FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
