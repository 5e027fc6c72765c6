package handler

import (
	"net/http"
	"strconv"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PlaceOrderRequest struct {
	Email            string `json:"email"`
	DeliveryMethodID int64  `json:"delivery_method_id"`
	IdempotencyKey   string `json:"idempotency_key,omitempty"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", h.placeOrder)
	e.GET("/orders/:id", h.getOrder)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//クライアントがキーを出さないなら発行する（再送はクライアント側の責務になる）
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), sessionID(c), usecase.PlaceOrderInput{
		Email:            req.Email,
		DeliveryMethodID: req.DeliveryMethodID,
		IdempotencyKey:   req.IdempotencyKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) getOrder(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	email := c.QueryParam("email")

	out, err := h.uc.GetOrder(c.Request().Context(), id, email)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
