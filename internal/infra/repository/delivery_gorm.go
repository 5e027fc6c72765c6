package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"gorm.io/gorm"
)

type DeliveryMethodGormRepository struct {
	db *gorm.DB
}

func NewDeliveryMethodGormRepository(db *gorm.DB) *DeliveryMethodGormRepository {
	return &DeliveryMethodGormRepository{db: db}
}

// 有効な配送方法を表示順で返す
func (r *DeliveryMethodGormRepository) ListActive(ctx context.Context) ([]model.DeliveryMethod, error) {
	var items []model.DeliveryMethod
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order asc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.DeliveryMethod{}, err
	}
	return items, nil
}

func (r *DeliveryMethodGormRepository) FindByID(ctx context.Context, id int64) (model.DeliveryMethod, error) {
	var m model.DeliveryMethod
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryMethod{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryMethod{}, err
	}
	return m, nil
}

func (r *DeliveryMethodGormRepository) Create(ctx context.Context, m model.DeliveryMethod) (model.DeliveryMethod, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.DeliveryMethod{}, err
	}
	return m, nil
}

func (r *DeliveryMethodGormRepository) Update(ctx context.Context, m model.DeliveryMethod) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryMethod{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":        m.Name,
		"price":       m.Price,
		"description": m.Description,
		"days_min":    m.DaysMin,
		"days_max":    m.DaysMax,
		"sort_order":  m.SortOrder,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryMethodGormRepository) SetActive(ctx context.Context, id int64, isActive bool) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryMethod{}).
		Where("id = ?", id).
		Update("is_active", isActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
