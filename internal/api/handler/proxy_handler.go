package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/api/metrics"
	"github.com/autoaccessories/pos-gateway/internal/api/middleware"
	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

// ProxyHandler forwards one business area's calls to the backend through
// the gateway client. Reads need only screen access (enforced by the
// RequireScreen middleware in front of the route group); mutations are
// additionally gated on the area's manage capability.
type ProxyHandler struct {
	backend   ports.Backend
	guard     *rbac.Guard
	mutateCap domain.Capability
}

// NewProxyHandler builds the forwarder for one area. mutateCap may be empty
// for read-only areas such as reports.
func NewProxyHandler(backend ports.Backend, guard *rbac.Guard, mutateCap domain.Capability) *ProxyHandler {
	return &ProxyHandler{backend: backend, guard: guard, mutateCap: mutateCap}
}

// Forward relays the request to the backend and returns the normalized
// envelope verbatim. Business failure stays inside the envelope with HTTP
// 200, matching how the UI renders inline errors; only terminal conditions
// (session expiry, denial) surface as HTTP errors.
//
// @Summary      Forward a business-area call to the backend
// @Tags         screens
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/{area} [get]
func (h *ProxyHandler) Forward(c echo.Context) error {
	method := c.Request().Method

	if mutating(method) {
		if h.mutateCap == "" {
			return domain.ErrCapabilityDenied
		}
		if err := h.guard.RequireCapability(middleware.Principal(c), h.mutateCap); err != nil {
			metrics.RBACDenialsTotal.WithLabelValues(string(middleware.Principal(c).Role), "").Inc()
			return err
		}
	}

	body, err := decodeBody(c, method)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	env, err := h.backend.Request(c.Request().Context(), method, backendPath(c), body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "session_expired").Inc()
		return err
	}

	outcome := "ok"
	if !env.Success {
		outcome = "failure"
	}
	metrics.BackendRequestsTotal.WithLabelValues(method, outcome).Inc()

	return c.JSON(http.StatusOK, env)
}

// backendPath strips the local /api prefix and keeps the query string, so
// /api/products?limit=20 becomes /products?limit=20 upstream.
func backendPath(c echo.Context) string {
	path := strings.TrimPrefix(c.Request().URL.Path, "/api")
	if q := c.QueryString(); q != "" {
		path += "?" + q
	}
	return path
}

func decodeBody(c echo.Context, method string) (any, error) {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, nil
	}
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
