package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

type DeliveryMethodRepository interface {
	ListActive(ctx context.Context) ([]model.DeliveryMethod, error)
	FindByID(ctx context.Context, id int64) (model.DeliveryMethod, error)

	Create(ctx context.Context, m model.DeliveryMethod) (model.DeliveryMethod, error)
	Update(ctx context.Context, m model.DeliveryMethod) error
	SetActive(ctx context.Context, id int64, isActive bool) error
}
