package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/api/middleware"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

// SessionHandler exposes the terminal's session lifecycle to the UI.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type unlockRequest struct {
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Success      bool     `json:"success"`
	User         any      `json:"user,omitempty"`
	RoleName     string   `json:"role_name,omitempty"`
	Screens      []string `json:"screens,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Login authenticates the operator against the backend and opens the
// terminal session.
//
// @Summary      Operator login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Operator credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Success:      true,
		User:         result.Principal,
		RoleName:     rbac.DisplayName(result.Principal.Role),
		Screens:      screenNames(result.Screens),
		Capabilities: capabilityNames(result.Capabilities),
	})
}

// Logout revokes the backend session and clears local credentials.
//
// @Summary      Operator logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true})
}

// Me returns the current operator plus the navigation the role permits.
// The UI builds its menu from this, but every screen is re-checked at
// click time regardless.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /session/me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	principal := middleware.Principal(c)
	return c.JSON(http.StatusOK, sessionResponse{
		Success:      true,
		User:         principal,
		RoleName:     rbac.DisplayName(principal.Role),
		Screens:      screenNames(rbac.ScreensFor(principal.Role)),
		Capabilities: capabilityNames(rbac.CapabilitiesFor(principal.Role)),
	})
}

// Unlock re-opens the UI after an idle lock without a backend round trip.
//
// @Summary      Offline unlock
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      unlockRequest  true  "Operator password"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /session/unlock [post]
func (h *SessionHandler) Unlock(c echo.Context) error {
	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal, err := h.sessions.Unlock(c.Request().Context(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:  true,
		User:     principal,
		RoleName: rbac.DisplayName(principal.Role),
		Screens:  screenNames(rbac.ScreensFor(principal.Role)),
	})
}
