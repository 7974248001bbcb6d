package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

const principalKey = "principal"

// Session resolves the terminal's current operator and injects the
// principal into the request context. Requests without a live session fail
// with domain.ErrNotAuthenticated.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := sessions.Current(c.Request().Context())
			if err != nil {
				return err
			}
			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

// Principal extracts the operator injected by the Session middleware.
// The zero Principal is returned when the middleware did not run; RBAC then
// denies everything, which is the safe default.
func Principal(c echo.Context) domain.Principal {
	p, _ := c.Get(principalKey).(domain.Principal)
	return p
}
