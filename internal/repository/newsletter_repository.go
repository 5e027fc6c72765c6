package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

type NewsletterRepository interface {
	// 同じemailなら購読フラグだけ書き換える
	Upsert(ctx context.Context, email string, subscribed bool) error
	FindByEmail(ctx context.Context, email string) (model.NewsletterSubscriber, error)
	ListSubscribed(ctx context.Context) ([]model.NewsletterSubscriber, error)
}
