package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 本番用のセッションストア（DB永続化）。
type SessionGormStore struct {
	db *gorm.DB
}

func NewSessionGormStore(db *gorm.DB) *SessionGormStore {
	return &SessionGormStore{db: db}
}

// 無ければ空のカートを返す（エラーにしない）
func (s *SessionGormStore) GetCart(ctx context.Context, sessionID string) (model.SessionCart, error) {
	st, found, err := s.find(ctx, sessionID)
	if err != nil {
		return model.SessionCart{}, err
	}
	if !found {
		return model.SessionCart{}, nil
	}
	return st.Cart, nil
}

func (s *SessionGormStore) SetCart(ctx context.Context, sessionID string, cart model.SessionCart) error {
	st := model.SessionState{SessionID: sessionID, Cart: cart}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cart", "updated_at"}),
		}).
		Create(&st).Error
}

func (s *SessionGormStore) DeleteCart(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Model(&model.SessionState{}).
		Where("session_id = ?", sessionID).
		Update("cart", model.SessionCart{}).Error
}

func (s *SessionGormStore) GetWishlist(ctx context.Context, sessionID string) (model.SessionWishlist, error) {
	st, found, err := s.find(ctx, sessionID)
	if err != nil {
		return model.SessionWishlist{}, err
	}
	if !found {
		return model.SessionWishlist{}, nil
	}
	return st.Wishlist, nil
}

func (s *SessionGormStore) SetWishlist(ctx context.Context, sessionID string, wl model.SessionWishlist) error {
	st := model.SessionState{SessionID: sessionID, Wishlist: wl}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"wishlist", "updated_at"}),
		}).
		Create(&st).Error
}

func (s *SessionGormStore) find(ctx context.Context, sessionID string) (model.SessionState, bool, error) {
	var st model.SessionState
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SessionState{}, false, nil
	}
	if err != nil {
		return model.SessionState{}, false, err
	}
	return st, true, nil
}
