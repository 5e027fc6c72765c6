package handler

import (
	"net/http"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/delivery-methods", h.list)
}

func (h *DeliveryHandler) list(c echo.Context) error {
	items, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
