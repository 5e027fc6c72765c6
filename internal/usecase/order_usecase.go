package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/pricing"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/validator"

	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	store      repo.SessionStore
	deliveries repo.DeliveryMethodRepository
	logger     *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	store repo.SessionStore,
	deliveries repo.DeliveryMethodRepository,
	logger *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, store: store, deliveries: deliveries, logger: logger}
}

type PlaceOrderInput struct {
	Email            string
	DeliveryMethodID int64
	IdempotencyKey   string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Color     string `json:"color,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Email         string            `json:"email"`
	Status        string            `json:"status"`
	Subtotal      int64             `json:"subtotal"`
	DeliveryName  string            `json:"delivery_name"`
	DeliveryPrice int64             `json:"delivery_price"`
	TotalPrice    int64             `json:"total_price"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

// PlaceOrder はセッションカートを注文に確定する。
// 注文作成・明細・在庫減算は1トランザクション。
// idempotency_keyが同じなら同じ注文を返す（カートは二度減らさない）。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, sessionID string, in PlaceOrderInput) (OrderOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !validator.IsEmailLike(email) {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid email")
	}
	if in.DeliveryMethodID <= 0 {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid delivery_method_id")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid idempotency_key")
	}

	//配送方法の存在確認
	delivery, err := u.deliveries.FindByID(ctx, in.DeliveryMethodID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, apperr.New(apperr.KindNotFound, "delivery method not found")
	}
	if err != nil {
		return OrderOutput{}, apperr.Wrap(apperr.KindPersistence, "read delivery method", err)
	}
	if !delivery.IsActive {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "delivery method not available")
	}

	//カートはトランザクションの外で読む（セッション状態はDBの正と別管理）
	cart, err := u.store.GetCart(ctx, sessionID)
	if err != nil {
		return OrderOutput{}, apperr.Wrap(apperr.KindPersistence, "read cart", err)
	}

	lines := make([]model.CartLineItem, 0, len(cart.Lines))
	for _, li := range cart.Lines {
		if li.IsMalformed() || li.Quantity <= 0 {
			continue
		}
		lines = append(lines, li)
	}
	if len(lines) == 0 {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "cart empty")
	}

	var out OrderOutput
	replayed := false

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, key)
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "read order", err)
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return apperr.Wrap(apperr.KindPersistence, "read order items", err)
			}
			out = toOrderOutput(existing, items)
			replayed = true
			return nil
		}

		//在庫を確定時に減らす（下限0、in_stockも同じ書き込みで更新）
		orderItems := make([]model.OrderItem, 0, len(lines))
		var subtotal int64 = 0

		for _, li := range lines {
			p, err := r.Products().FindByID(ctx, li.ProductID)
			if err == repo.ErrNotFound {
				return apperr.New(apperr.KindInvalidArgument, "product no longer available")
			}
			if err != nil {
				return apperr.Wrap(apperr.KindPersistence, "read product", err)
			}
			if !p.IsActive {
				return apperr.New(apperr.KindInvalidArgument, "product no longer available")
			}

			w, _, delta, err := applyStockSale(p, li.Color, li.Quantity)
			if err != nil {
				return err
			}
			if err := r.Inventory().WriteStockGuarded(ctx, w); err != nil {
				if err == repo.ErrVersionConflict {
					return apperr.New(apperr.KindConflict, "stock update conflict")
				}
				return apperr.Wrap(apperr.KindPersistence, "write stock", err)
			}
			if delta != 0 {
				adj := model.StockAdjustment{
					ProductID: li.ProductID,
					Color:     li.Color,
					Delta:     delta,
					Reason:    "order",
				}
				if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
					return apperr.Wrap(apperr.KindPersistence, "write adjustment", err)
				}
			}

			//スナップショット（単価は優先順位どおり）
			unit := pricing.UnitPrice(li)
			orderItems = append(orderItems, model.OrderItem{
				ProductID:         li.ProductID,
				TitleSnapshot:     li.Title,
				Color:             li.Color,
				UnitPriceSnapshot: unit,
				Quantity:          li.Quantity,
			})
			subtotal += unit * li.Quantity
		}

		// 注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			Email:             email,
			Status:            model.OrderStatusPending,
			Subtotal:          subtotal,
			DeliveryMethodID:  delivery.ID,
			DeliveryNameSnap:  delivery.Name,
			DeliveryPriceSnap: delivery.Price,
			TotalPrice:        subtotal + delivery.Price,
			IdempotencyKey:    key,
		})
		if err != nil {
			//競合（同時に同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return apperr.Wrap(apperr.KindPersistence, "read order items", err3)
				}
				out = toOrderOutput(ex2, items2)
				replayed = true
				return nil
			}
			return apperr.New(apperr.KindConflict, "idempotency conflict")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return apperr.Wrap(apperr.KindPersistence, "write order items", err)
		}

		created := model.Order{
			ID:                orderID,
			Email:             email,
			Status:            model.OrderStatusPending,
			Subtotal:          subtotal,
			DeliveryMethodID:  delivery.ID,
			DeliveryNameSnap:  delivery.Name,
			DeliveryPriceSnap: delivery.Price,
			TotalPrice:        subtotal + delivery.Price,
			CreatedAt:         time.Now(),
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//確定できたらカートをクリア（再注文防止）。リプレイ時は触らない。
	if !replayed {
		if err := u.store.DeleteCart(ctx, sessionID); err != nil {
			u.logger.Error("cart clear after order failed",
				zap.Int64("order_id", out.ID),
				zap.Error(err),
			)
		}
	}

	return out, nil
}

// ゲスト注文照会（ID＋メール）
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64, email string) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid id")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if !validator.IsEmailLike(email) {
		return OrderOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid email")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDAndEmail(ctx, orderID, email)
		if err == repo.ErrNotFound {
			//他人の注文は「存在しない扱い」にする
			return apperr.New(apperr.KindNotFound, "not found")
		}
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "read order", err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return apperr.Wrap(apperr.KindPersistence, "read order items", err)
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Title:     it.TitleSnapshot,
			Color:     it.Color,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		Email:         o.Email,
		Status:        string(o.Status),
		Subtotal:      o.Subtotal,
		DeliveryName:  o.DeliveryNameSnap,
		DeliveryPrice: o.DeliveryPriceSnap,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
