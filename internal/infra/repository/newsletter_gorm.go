package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewsletterGormRepository struct {
	db *gorm.DB
}

func NewNewsletterGormRepository(db *gorm.DB) *NewsletterGormRepository {
	return &NewsletterGormRepository{db: db}
}

// 同じemailなら購読フラグだけ書き換える
func (r *NewsletterGormRepository) Upsert(ctx context.Context, email string, subscribed bool) error {
	sub := model.NewsletterSubscriber{Email: email, Subscribed: subscribed}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscribed", "updated_at"}),
		}).
		Create(&sub).Error
}

func (r *NewsletterGormRepository) FindByEmail(ctx context.Context, email string) (model.NewsletterSubscriber, error) {
	var sub model.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewsletterSubscriber{}, repo.ErrNotFound
	}
	if err != nil {
		return model.NewsletterSubscriber{}, err
	}
	return sub, nil
}

func (r *NewsletterGormRepository) ListSubscribed(ctx context.Context) ([]model.NewsletterSubscriber, error) {
	var items []model.NewsletterSubscriber
	err := r.db.WithContext(ctx).
		Where("subscribed = ?", true).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.NewsletterSubscriber{}, err
	}
	return items, nil
}
