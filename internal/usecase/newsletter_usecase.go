package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/validator"
)

type NewsletterUsecase struct {
	subscribers repo.NewsletterRepository
}

func NewNewsletterUsecase(subscribers repo.NewsletterRepository) *NewsletterUsecase {
	return &NewsletterUsecase{subscribers: subscribers}
}

// 購読登録。登録済みならフラグを立て直すだけ。
func (u *NewsletterUsecase) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validator.IsEmailLike(email) {
		return apperr.New(apperr.KindInvalidArgument, "invalid email")
	}

	if err := u.subscribers.Upsert(ctx, email, true); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "subscribe", err)
	}
	return nil
}

// 購読解除。未登録なら404。
func (u *NewsletterUsecase) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validator.IsEmailLike(email) {
		return apperr.New(apperr.KindInvalidArgument, "invalid email")
	}

	_, err := u.subscribers.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "read subscriber", err)
	}

	if err := u.subscribers.Upsert(ctx, email, false); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "unsubscribe", err)
	}
	return nil
}

// 管理画面のエクスポート用
func (u *NewsletterUsecase) AdminListSubscribed(ctx context.Context, adminUserID int64) ([]model.NewsletterSubscriber, error) {
	if adminUserID <= 0 {
		return nil, apperr.New(apperr.KindUnauthorized, "unauthorized")
	}

	items, err := u.subscribers.ListSubscribed(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list subscribers", err)
	}
	return items, nil
}
