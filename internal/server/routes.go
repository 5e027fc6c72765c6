package server

import (
	"net/http"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/config"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, checker auth.RoleChecker, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//公開API
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Wishlist.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Delivery.RegisterRoutes(e)
	h.Newsletter.RegisterRoutes(e)

	//管理API（JWT＋ADMINロール必須）
	h.AdminProduct.RegisterRoutes(e, cfg, checker)
	h.AdminOrder.RegisterRoutes(e, cfg, checker)
	h.AdminDelivery.RegisterRoutes(e, cfg, checker)
}
