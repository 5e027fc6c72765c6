package middleware

import (
	"net/http"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/auth"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextのuser_idがADMINかどうかを毎回バックエンドに確認します。
//トークンのrole claimだけを信用しない（失効・降格を反映するため）。

func AdminRoleGuard(checker auth.RoleChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Get(CtxUserIDKey)
			userID, ok := rawID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			isAdmin, err := checker.HasRole(c.Request().Context(), userID, model.RoleAdmin)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//USERは拒否、ADMINだけ許可
			if !isAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
