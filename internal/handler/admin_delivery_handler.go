package handler

import (
	"net/http"
	"strconv"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/config"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/middleware"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/delivery-methods の管理API
type AdminDeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

// DI
func NewAdminDeliveryHandler(uc *usecase.DeliveryUsecase) *AdminDeliveryHandler {
	return &AdminDeliveryHandler{uc: uc}
}

type AdminSaveDeliveryRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
	DaysMin     int    `json:"days_min"`
	DaysMax     int    `json:"days_max"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

type AdminSetDeliveryActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type AdminCreateDeliveryResponse struct {
	ID int64 `json:"id"`
}

func (h *AdminDeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, checker auth.RoleChecker) {
	g := e.Group("/admin/delivery-methods")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard(checker))

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/active", h.setActive)
}

func (h *AdminDeliveryHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminSaveDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.AdminCreate(c.Request().Context(), adminID, usecase.AdminSaveDeliveryInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		DaysMin:     req.DaysMin,
		DaysMax:     req.DaysMax,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, AdminCreateDeliveryResponse{ID: id})
}

func (h *AdminDeliveryHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminSaveDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminUpdate(c.Request().Context(), adminID, id, usecase.AdminSaveDeliveryInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		DaysMin:     req.DaysMin,
		DaysMax:     req.DaysMax,
		SortOrder:   req.SortOrder,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminDeliveryHandler) setActive(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminSetDeliveryActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminSetActive(c.Request().Context(), adminID, id, req.IsActive); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
