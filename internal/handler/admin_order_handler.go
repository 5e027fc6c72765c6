package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/config"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/middleware"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	orderUC      *usecase.AdminOrderUsecase
	newsletterUC *usecase.NewsletterUsecase
}

func NewAdminOrderHandler(orderUC *usecase.AdminOrderUsecase, newsletterUC *usecase.NewsletterUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: orderUC, newsletterUC: newsletterUC}
}

type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, checker auth.RoleChecker) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard(checker))

	g.GET("/orders", h.list)
	g.PATCH("/orders/:id/status", h.updateStatus)
	g.GET("/newsletter/subscribers", h.listSubscribers)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f := repo.AdminOrderListFilter{Page: 1, Limit: 50}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		f.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = l
	}

	f.Status = model.OrderStatus(strings.TrimSpace(c.QueryParam("status")))
	f.Email = strings.TrimSpace(c.QueryParam("email"))

	if t, ok := parseDateTimeRFC3339(c.QueryParam("from")); ok {
		f.From = t
	}
	if t, ok := parseDateTimeRFC3339(c.QueryParam("to")); ok {
		f.To = t
	}

	out, err := h.orderUC.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminUpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orderUC.UpdateStatus(c.Request().Context(), adminID, id, usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminOrderHandler) listSubscribers(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	items, err := h.newsletterUC.AdminListSubscribed(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *AdminOrderHandler) listAuditLogs(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	f := repo.AuditLogFilter{Page: 1, Limit: 50}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		f.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = l
	}

	f.Action = model.AuditAction(strings.TrimSpace(c.QueryParam("action")))
	f.ResourceType = model.AuditResourceType(strings.TrimSpace(c.QueryParam("resource_type")))

	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		f.ResourceID = &id
	}

	items, err := h.orderUC.AdminListAuditLogs(c.Request().Context(), adminID, f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

// 期間パラメータ用
func parseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
