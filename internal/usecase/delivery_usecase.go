package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

type DeliveryUsecase struct {
	deliveries repo.DeliveryMethodRepository
}

func NewDeliveryUsecase(deliveries repo.DeliveryMethodRepository) *DeliveryUsecase {
	return &DeliveryUsecase{deliveries: deliveries}
}

// 公開API用。有効なものだけ。
func (u *DeliveryUsecase) ListActive(ctx context.Context) ([]model.DeliveryMethod, error) {
	items, err := u.deliveries.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list delivery methods", err)
	}
	return items, nil
}

type AdminSaveDeliveryInput struct {
	Name        string
	Price       int64
	Description string
	DaysMin     int
	DaysMax     int
	SortOrder   int
	IsActive    bool
}

func (u *DeliveryUsecase) AdminCreate(ctx context.Context, adminUserID int64, in AdminSaveDeliveryInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if err := validateSaveDelivery(in); err != nil {
		return 0, err
	}

	m, err := u.deliveries.Create(ctx, model.DeliveryMethod{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		DaysMin:     in.DaysMin,
		DaysMax:     in.DaysMax,
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, "create delivery method", err)
	}
	return m.ID, nil
}

func (u *DeliveryUsecase) AdminUpdate(ctx context.Context, adminUserID int64, id int64, in AdminSaveDeliveryInput) error {
	if adminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid id")
	}
	if err := validateSaveDelivery(in); err != nil {
		return err
	}

	err := u.deliveries.Update(ctx, model.DeliveryMethod{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		DaysMin:     in.DaysMin,
		DaysMax:     in.DaysMax,
		SortOrder:   in.SortOrder,
	})
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "update delivery method", err)
	}
	return nil
}

func (u *DeliveryUsecase) AdminSetActive(ctx context.Context, adminUserID int64, id int64, isActive bool) error {
	if adminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid id")
	}

	err := u.deliveries.SetActive(ctx, id, isActive)
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "update delivery method", err)
	}
	return nil
}

func validateSaveDelivery(in AdminSaveDeliveryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.KindInvalidArgument, "name required")
	}
	if in.Price < 0 {
		return apperr.New(apperr.KindInvalidArgument, "price must be >= 0")
	}
	if in.DaysMin < 0 || in.DaysMax < 0 || (in.DaysMax > 0 && in.DaysMin > in.DaysMax) {
		return apperr.New(apperr.KindInvalidArgument, "invalid delivery days")
	}
	return nil
}
