package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page        int
	Limit       int
	Q           string
	Category    string
	MinPrice    *int64
	MaxPrice    *int64
	Color       string
	InStockOnly bool
	Sort        string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, apperr.New(apperr.KindInvalidArgument, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:        in.Page,
		Limit:       in.Limit,
		Q:           strings.TrimSpace(in.Q),
		Category:    strings.TrimSpace(in.Category),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Color:       strings.TrimSpace(in.Color),
		InStockOnly: in.InStockOnly,
		Sort:        in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, apperr.Wrap(apperr.KindPersistence, "list products", err)
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, apperr.Wrap(apperr.KindPersistence, "read product", err)
	}

	if !p.IsActive {
		return model.Product{}, apperr.New(apperr.KindNotFound, "not found")
	}
	return p, nil
}

type AdminSaveProductInput struct {
	Title         string
	Description   string
	Category      string
	Price         int64
	DiscountPrice *int64
	Stock         int64
	ColorVariants []model.ColorVariant
	ImageURL      string
	IsActive      bool
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminSaveProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if err := validateSaveProduct(in); err != nil {
		return 0, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		ColorVariants: in.ColorVariants,
		ImageURL:      in.ImageURL,
		IsActive:      in.IsActive,
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, "create product", err)
	}
	return p.ID, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminSaveProductInput) error {
	if adminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}
	if err := validateSaveProduct(in); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:            productID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		ImageURL:      in.ImageURL,
		IsActive:      in.IsActive,
	})
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "update product", err)
	}
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "delete product", err)
	}
	return nil
}

// 在庫を「現在値」に設定する管理操作。
// 在庫・バリアント・in_stockは1回の書き込み、履歴と監査ログも残す。
func (u *ProductUsecase) AdminSetStock(ctx context.Context, adminUserID int64, productID int64, color string, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return apperr.New(apperr.KindUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return apperr.New(apperr.KindInvalidArgument, "invalid product id")
	}
	if newStock < 0 {
		return apperr.New(apperr.KindInvalidArgument, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return apperr.New(apperr.KindInvalidArgument, "reason required")
	}

	//変更前の在庫（before）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return apperr.New(apperr.KindNotFound, "not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "read product", err)
	}

	w, before, err := applyStockSet(p, color, newStock)
	if err != nil {
		return err
	}

	if err := u.inventoryRepo.WriteStockGuarded(ctx, w); err != nil {
		if err == repo.ErrNotFound {
			return apperr.New(apperr.KindNotFound, "not found")
		}
		if err == repo.ErrVersionConflict {
			return apperr.New(apperr.KindConflict, "stock update conflict")
		}
		return apperr.Wrap(apperr.KindPersistence, "write stock", err)
	}

	//履歴を作成（差分）
	adj := model.StockAdjustment{
		ProductID:   productID,
		Color:       color,
		ActorUserID: adminUserID,
		Delta:       newStock - before,
		Reason:      strings.TrimSpace(reason),
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "write adjustment", err)
	}

	//監査ログを作成（在庫更新）
	//「誰が」「何を」「どの対象に」「どう変えたか」を残す
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   stockJSON(color, before),
		AfterJSON:    stockJSON(color, newStock),
	}); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "write audit log", err)
	}

	return nil
}

func validateSaveProduct(in AdminSaveProductInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.New(apperr.KindInvalidArgument, "title required")
	}
	if in.Price < 0 {
		return apperr.New(apperr.KindInvalidArgument, "price must be >= 0")
	}
	if in.DiscountPrice != nil && *in.DiscountPrice < 0 {
		return apperr.New(apperr.KindInvalidArgument, "discount_price must be >= 0")
	}
	if in.Stock < 0 {
		return apperr.New(apperr.KindInvalidArgument, "stock must be >= 0")
	}
	for _, v := range in.ColorVariants {
		if strings.TrimSpace(v.Color) == "" {
			return apperr.New(apperr.KindInvalidArgument, "variant color required")
		}
		if v.Price < 0 {
			return apperr.New(apperr.KindInvalidArgument, "variant price must be >= 0")
		}
		if v.Stock != nil && *v.Stock < 0 {
			return apperr.New(apperr.KindInvalidArgument, "variant stock must be >= 0")
		}
	}
	return nil
}

// 在庫の現在値設定の書き込み内容を組み立てる。
func applyStockSet(p model.Product, color string, newStock int64) (repo.StockWrite, int64, error) {
	w := repo.StockWrite{
		ProductID:   p.ID,
		PrevVersion: p.Version,
	}

	if color != "" {
		idx, ok := p.FindVariant(color)
		if !ok {
			return repo.StockWrite{}, 0, apperr.New(apperr.KindNotFound, "color variant not found")
		}

		variants := make([]model.ColorVariant, len(p.ColorVariants))
		copy(variants, p.ColorVariants)

		var before int64
		if variants[idx].Stock != nil {
			before = *variants[idx].Stock
		}
		q := newStock
		variants[idx].Stock = &q

		w.Stock = p.Stock
		w.ColorVariants = variants

		derived := p
		derived.ColorVariants = variants
		w.InStock = derived.DeriveInStock()

		return w, before, nil
	}

	w.Stock = newStock
	w.ColorVariants = p.ColorVariants

	derived := p
	derived.Stock = newStock
	w.InStock = derived.DeriveInStock()

	return w, p.Stock, nil
}

func stockJSON(color string, stock int64) string {
	if color != "" {
		return fmt.Sprintf(`{"color":%q,"stock":%d}`, color, stock)
	}
	return fmt.Sprintf(`{"stock":%d}`, stock)
}
