package handler

import (
	"net/http"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

type NewsletterHandler struct {
	uc *usecase.NewsletterUsecase
}

func NewNewsletterHandler(uc *usecase.NewsletterUsecase) *NewsletterHandler {
	return &NewsletterHandler{uc: uc}
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/newsletter/subscribe", h.subscribe)
	e.POST("/newsletter/unsubscribe", h.unsubscribe)
}

func (h *NewsletterHandler) subscribe(c echo.Context) error {
	var req NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Subscribe(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NewsletterHandler) unsubscribe(c echo.Context) error {
	var req NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Unsubscribe(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
