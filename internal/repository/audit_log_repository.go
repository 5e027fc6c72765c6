package repository

import (
	"context"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
)

type AuditLogFilter struct {
	Page         int
	Limit        int
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   *int64
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
