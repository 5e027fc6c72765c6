package handler

import (
	"net/http"
	"strconv"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/config"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/middleware"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// contextのuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// /admin/products の管理API
type AdminProductHandler struct {
	productUC   *usecase.ProductUsecase
	inventoryUC *usecase.InventoryUsecase
}

// DI
func NewAdminProductHandler(productUC *usecase.ProductUsecase, inventoryUC *usecase.InventoryUsecase) *AdminProductHandler {
	return &AdminProductHandler{productUC: productUC, inventoryUC: inventoryUC}
}

type AdminSaveProductRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Price         int64                `json:"price"`
	DiscountPrice *int64               `json:"discount_price,omitempty"`
	Stock         int64                `json:"stock"`
	ColorVariants []model.ColorVariant `json:"color_variants,omitempty"`
	ImageURL      string               `json:"image_url,omitempty"`
	IsActive      bool                 `json:"is_active"`
}

type AdminSetStockRequest struct {
	Color  string `json:"color,omitempty"`
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

type AdminAdjustStockRequest struct {
	Color        string `json:"color,omitempty"`
	QuantitySold int64  `json:"quantity_sold"`
	Reason       string `json:"reason,omitempty"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, checker auth.RoleChecker) {
	g := e.Group("/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard(checker))

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/stock", h.setStock)
	g.POST("/:id/stock/adjust", h.adjustStock)
	g.GET("/:id/stock/adjustments", h.listAdjustments)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminSaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.productUC.AdminCreateProduct(c.Request().Context(), adminID, toSaveInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminProductHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminSaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.productUC.AdminUpdateProduct(c.Request().Context(), adminID, id, toSaveInput(req)); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.productUC.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// 在庫の現在値を設定する
func (h *AdminProductHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminSetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.productUC.AdminSetStock(c.Request().Context(), adminID, id, req.Color, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// 販売数ぶん在庫を減らす（出荷・フルフィルメント用）
func (h *AdminProductHandler) adjustStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminAdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.inventoryUC.AdjustStock(c.Request().Context(), usecase.AdjustStockInput{
		ProductID:    id,
		QuantitySold: req.QuantitySold,
		Color:        req.Color,
		ActorUserID:  adminID,
		Reason:       req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) listAdjustments(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	items, err := h.inventoryUC.ListAdjustments(c.Request().Context(), id, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func toSaveInput(req AdminSaveProductRequest) usecase.AdminSaveProductInput {
	return usecase.AdminSaveProductInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		ColorVariants: req.ColorVariants,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
	}
}
