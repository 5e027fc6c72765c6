package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

// ウィッシュリストもカートと同じセッション状態。
type WishlistUsecase struct {
	store       repo.SessionStore
	productRepo repo.ProductRepository
}

func NewWishlistUsecase(store repo.SessionStore, productRepo repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{store: store, productRepo: productRepo}
}

func (u *WishlistUsecase) Get(ctx context.Context, sessionID string) (model.SessionWishlist, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.SessionWishlist{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}

	wl, err := u.store.GetWishlist(ctx, sessionID)
	if err != nil {
		return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "read wishlist", err)
	}
	return wl, nil
}

func (u *WishlistUsecase) Add(ctx context.Context, sessionID string, productID int64) (model.SessionWishlist, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.SessionWishlist{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if productID <= 0 {
		return model.SessionWishlist{}, apperr.New(apperr.KindInvalidArgument, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.SessionWishlist{}, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "read product", err)
	}
	if !p.IsActive {
		return model.SessionWishlist{}, apperr.New(apperr.KindNotFound, "product not found")
	}

	wl, err := u.store.GetWishlist(ctx, sessionID)
	if err != nil {
		return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "read wishlist", err)
	}

	if !wl.Contains(productID) {
		wl.ProductIDs = append(wl.ProductIDs, productID)
		if err := u.store.SetWishlist(ctx, sessionID, wl); err != nil {
			return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "write wishlist", err)
		}
	}
	return wl, nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, sessionID string, productID int64) (model.SessionWishlist, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.SessionWishlist{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if productID <= 0 {
		return model.SessionWishlist{}, apperr.New(apperr.KindInvalidArgument, "invalid product_id")
	}

	wl, err := u.store.GetWishlist(ctx, sessionID)
	if err != nil {
		return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "read wishlist", err)
	}

	kept := wl.ProductIDs[:0]
	for _, id := range wl.ProductIDs {
		if id != productID {
			kept = append(kept, id)
		}
	}
	wl.ProductIDs = kept

	if err := u.store.SetWishlist(ctx, sessionID, wl); err != nil {
		return model.SessionWishlist{}, apperr.Wrap(apperr.KindPersistence, "write wishlist", err)
	}
	return wl, nil
}
