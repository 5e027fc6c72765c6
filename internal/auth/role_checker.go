package auth

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

// 認可のためのケイパビリティ確認ポート。
// 利用側はバックエンドの実体（DB/外部IdP）を知らない。
type RoleChecker interface {
	HasRole(ctx context.Context, userID int64, role model.Role) (bool, error)
}

// UserRepositoryに問い合わせる実装。
type RepoRoleChecker struct {
	users repo.UserRepository
}

func NewRepoRoleChecker(users repo.UserRepository) *RepoRoleChecker {
	return &RepoRoleChecker{users: users}
}

func (c *RepoRoleChecker) HasRole(ctx context.Context, userID int64, role model.Role) (bool, error) {
	u, err := c.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !u.IsActive {
		return false, nil
	}
	return u.Role == role, nil
}
