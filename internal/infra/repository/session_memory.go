package repository

import (
	"context"
	"sync"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

// インメモリのセッションストア。テストとローカル起動用。
type SessionMemoryStore struct {
	mu        sync.RWMutex
	carts     map[string]model.SessionCart
	wishlists map[string]model.SessionWishlist
}

func NewSessionMemoryStore() *SessionMemoryStore {
	return &SessionMemoryStore{
		carts:     map[string]model.SessionCart{},
		wishlists: map[string]model.SessionWishlist{},
	}
}

func (s *SessionMemoryStore) GetCart(ctx context.Context, sessionID string) (model.SessionCart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[sessionID], nil
}

func (s *SessionMemoryStore) SetCart(ctx context.Context, sessionID string, cart model.SessionCart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cart
	return nil
}

func (s *SessionMemoryStore) DeleteCart(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *SessionMemoryStore) GetWishlist(ctx context.Context, sessionID string) (model.SessionWishlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlists[sessionID], nil
}

func (s *SessionMemoryStore) SetWishlist(ctx context.Context, sessionID string, wl model.SessionWishlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlists[sessionID] = wl
	return nil
}
