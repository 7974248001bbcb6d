package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/api/metrics"
	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

// RequireScreen enforces screen-level access control in front of every
// route group. The check runs even when the UI never rendered a link to the
// screen; a tampered or stale DOM cannot reach past it.
func RequireScreen(guard *rbac.Guard, screen domain.Screen) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := Principal(c)
			if err := guard.RequireScreen(principal, screen); err != nil {
				metrics.RBACDenialsTotal.WithLabelValues(string(principal.Role), string(screen)).Inc()
				return err
			}
			return next(c)
		}
	}
}
