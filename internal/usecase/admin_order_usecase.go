package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	audits repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, audits repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, audits: audits}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid limit")
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "list orders", err)
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return apperr.Wrap(apperr.KindPersistence, "read order items", err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return AdminOrderListOutput{
		Items: outs,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}, nil
}

// 監査ログの閲覧
func (u *AdminOrderUsecase) AdminListAuditLogs(ctx context.Context, actorAdminUserID int64, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if actorAdminUserID <= 0 {
		return nil, apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if f.Page < 1 {
		return nil, apperr.New(apperr.KindInvalidArgument, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return nil, apperr.New(apperr.KindInvalidArgument, "invalid limit")
	}

	items, err := u.audits.List(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list audit logs", err)
	}
	return items, nil
}

// ステータス更新（CANCELEDなら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid id")
	}

	newStatus := strings.TrimSpace(in.Status)
	switch newStatus {
	case "PENDING", "PAID", "SHIPPED", "CANCELED":
		// OK
	default:
		return apperr.New(apperr.KindInvalidArgument, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return apperr.New(apperr.KindNotFound, "not found")
		}
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "read order", err)
		}

		// すでに同じなら何もしない
		if string(o.Status) == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status == model.OrderStatusCanceled {
			return apperr.New(apperr.KindInvalidArgument, "cannot change canceled order")
		}
		if o.Status == model.OrderStatusShipped {
			return apperr.New(apperr.KindInvalidArgument, "cannot change shipped order")
		}

		// newStatusがCANCELEDのときだけ在庫戻し
		if newStatus == "CANCELED" {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return apperr.Wrap(apperr.KindPersistence, "read order items", err)
			}

			for _, it := range items {
				if err := restock(ctx, r, it, actorAdminUserID); err != nil {
					return err
				}
			}
		}

		// ステータス更新
		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatus(newStatus)); err != nil {
			if err == repo.ErrNotFound {
				return apperr.New(apperr.KindNotFound, "not found")
			}
			return apperr.Wrap(apperr.KindPersistence, "update order status", err)
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + newStatus + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
		}); err != nil {
			return apperr.Wrap(apperr.KindPersistence, "write audit log", err)
		}

		return nil
	})
}

// キャンセルされた明細ぶんの在庫を戻す。
// 減算と同じく、在庫とin_stockは1回の書き込み。
func restock(ctx context.Context, r repo.TxRepos, it model.OrderItem, actorUserID int64) error {
	p, err := r.Products().FindByID(ctx, it.ProductID)
	if err == repo.ErrNotFound {
		// 商品が消えていたら戻し先が無い。スキップして続行。
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "read product", err)
	}

	w := repo.StockWrite{
		ProductID:   p.ID,
		PrevVersion: p.Version,
	}

	if it.Color != "" {
		idx, ok := p.FindVariant(it.Color)
		if !ok {
			return nil
		}
		variants := make([]model.ColorVariant, len(p.ColorVariants))
		copy(variants, p.ColorVariants)

		var cur int64
		if variants[idx].Stock != nil {
			cur = *variants[idx].Stock
		}
		q := cur + it.Quantity
		variants[idx].Stock = &q

		w.Stock = p.Stock
		w.ColorVariants = variants

		derived := p
		derived.ColorVariants = variants
		w.InStock = derived.DeriveInStock()
	} else {
		w.Stock = p.Stock + it.Quantity
		w.ColorVariants = p.ColorVariants

		derived := p
		derived.Stock = w.Stock
		w.InStock = derived.DeriveInStock()
	}

	if err := r.Inventory().WriteStockGuarded(ctx, w); err != nil {
		if err == repo.ErrVersionConflict {
			return apperr.New(apperr.KindConflict, "stock update conflict")
		}
		return apperr.Wrap(apperr.KindPersistence, "write stock", err)
	}

	adj := model.StockAdjustment{
		ProductID:   it.ProductID,
		Color:       it.Color,
		ActorUserID: actorUserID,
		Delta:       it.Quantity,
		Reason:      "order canceled",
	}
	if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "write adjustment", err)
	}
	return nil
}
