package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

// セッション状態（カート・ウィッシュリスト）のget/setの約束。
// 実装は差し替え可能（本番はDB、テストはインメモリ）。
type SessionStore interface {
	GetCart(ctx context.Context, sessionID string) (model.SessionCart, error)
	SetCart(ctx context.Context, sessionID string, cart model.SessionCart) error
	DeleteCart(ctx context.Context, sessionID string) error

	GetWishlist(ctx context.Context, sessionID string) (model.SessionWishlist, error)
	SetWishlist(ctx context.Context, sessionID string, wl model.SessionWishlist) error
}
