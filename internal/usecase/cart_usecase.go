package usecase

import (
	"context"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/pricing"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

// CartUsecase はセッションカートの業務ロジック。
// 状態はSessionStore経由のget/setだけで触る。
type CartUsecase struct {
	store       repo.SessionStore
	productRepo repo.ProductRepository
	deliveries  repo.DeliveryMethodRepository
}

func NewCartUsecase(
	store repo.SessionStore,
	productRepo repo.ProductRepository,
	deliveries repo.DeliveryMethodRepository,
) *CartUsecase {
	return &CartUsecase{
		store:       store,
		productRepo: productRepo,
		deliveries:  deliveries,
	}
}

type CartView struct {
	Items  []model.CartLineItem `json:"items"`
	Totals pricing.CartTotals   `json:"totals"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
	Color     string
}

type UpdateCartLineInput struct {
	ProductID int64
	Color     string
	Quantity  int64
}

// GetCart はカート取得。delivery_method_id付きなら配送料込みの合計を返す。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string, deliveryMethodID *int64) (CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}

	cart, err := u.store.GetCart(ctx, sessionID)
	if err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "read cart", err)
	}

	return u.buildCartView(ctx, cart, deliveryMethodID)
}

// AddToCart はカートに追加（同一商品・同一色は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, in AddCartInput) (CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if in.ProductID <= 0 {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartView{}, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "read product", err)
	}
	if !p.IsActive {
		return CartView{}, apperr.New(apperr.KindNotFound, "product not found")
	}

	// 色指定ならバリアントのスナップショットを取る
	var variant *model.ColorVariant
	if in.Color != "" {
		idx, ok := p.FindVariant(in.Color)
		if !ok {
			return CartView{}, apperr.New(apperr.KindNotFound, "color variant not found")
		}
		v := p.ColorVariants[idx]
		variant = &v
	}

	cart, err := u.store.GetCart(ctx, sessionID)
	if err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "read cart", err)
	}

	// 同一商品・同一色は加算
	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == in.ProductID && cart.Lines[i].Color == in.Color {
			cart.Lines[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		imageURL := p.ImageURL
		if variant != nil && variant.ImageURL != "" {
			imageURL = variant.ImageURL
		}
		cart.Lines = append(cart.Lines, model.CartLineItem{
			ProductID:     p.ID,
			Title:         p.Title,
			Price:         p.Price,
			DiscountPrice: p.DiscountPrice,
			Quantity:      in.Quantity,
			Color:         in.Color,
			Variant:       variant,
			ImageURL:      imageURL,
		})
	}

	if err := u.store.SetCart(ctx, sessionID, cart); err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "write cart", err)
	}

	return u.buildCartView(ctx, cart, nil)
}

// 数量変更
func (u *CartUsecase) UpdateLine(ctx context.Context, sessionID string, in UpdateCartLineInput) (CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if in.ProductID <= 0 {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid quantity")
	}

	cart, err := u.store.GetCart(ctx, sessionID)
	if err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "read cart", err)
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == in.ProductID && cart.Lines[i].Color == in.Color {
			cart.Lines[i].Quantity = in.Quantity
			found = true
			break
		}
	}
	if !found {
		return CartView{}, apperr.New(apperr.KindNotFound, "line not found")
	}

	if err := u.store.SetCart(ctx, sessionID, cart); err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "write cart", err)
	}

	return u.buildCartView(ctx, cart, nil)
}

// 明細削除
func (u *CartUsecase) RemoveLine(ctx context.Context, sessionID string, productID int64, color string) (CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if productID <= 0 {
		return CartView{}, apperr.New(apperr.KindInvalidArgument, "invalid product_id")
	}

	cart, err := u.store.GetCart(ctx, sessionID)
	if err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "read cart", err)
	}

	kept := cart.Lines[:0]
	found := false
	for _, li := range cart.Lines {
		if li.ProductID == productID && li.Color == color {
			found = true
			continue
		}
		kept = append(kept, li)
	}
	if !found {
		return CartView{}, apperr.New(apperr.KindNotFound, "line not found")
	}
	cart.Lines = kept

	if err := u.store.SetCart(ctx, sessionID, cart); err != nil {
		return CartView{}, apperr.Wrap(apperr.KindPersistence, "write cart", err)
	}

	return u.buildCartView(ctx, cart, nil)
}

// カートを空にする
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperr.New(apperr.KindInvalidArgument, "invalid session")
	}
	if err := u.store.DeleteCart(ctx, sessionID); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "clear cart", err)
	}
	return nil
}

// 明細と合計をまとめる。合計は純粋計算に委譲。
func (u *CartUsecase) buildCartView(ctx context.Context, cart model.SessionCart, deliveryMethodID *int64) (CartView, error) {
	var delivery *model.DeliveryMethod
	if deliveryMethodID != nil {
		m, err := u.deliveries.FindByID(ctx, *deliveryMethodID)
		if err == repo.ErrNotFound {
			return CartView{}, apperr.New(apperr.KindNotFound, "delivery method not found")
		}
		if err != nil {
			return CartView{}, apperr.Wrap(apperr.KindPersistence, "read delivery method", err)
		}
		delivery = &m
	}

	items := make([]model.CartLineItem, 0, len(cart.Lines))
	for _, li := range cart.Lines {
		if li.IsMalformed() {
			continue
		}
		items = append(items, li)
	}

	return CartView{
		Items:  items,
		Totals: pricing.ComputeCartTotals(cart.Lines, delivery),
	}, nil
}
