package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

type stubSessions struct {
	loginFn   func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn  func(ctx context.Context) error
	currentFn func(ctx context.Context) (*domain.Principal, error)
	unlockFn  func(ctx context.Context, password string) (*domain.Principal, error)
}

func (s *stubSessions) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessions) Logout(ctx context.Context) error { return s.logoutFn(ctx) }

func (s *stubSessions) Current(ctx context.Context) (*domain.Principal, error) {
	return s.currentFn(ctx)
}

func (s *stubSessions) Unlock(ctx context.Context, password string) (*domain.Principal, error) {
	return s.unlockFn(ctx, password)
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionLogin_ReturnsRoleGrants(t *testing.T) {
	sessions := &stubSessions{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "rashid" || password != "s3cret99" {
				t.Fatalf("credentials not forwarded: %s/%s", username, password)
			}
			principal := domain.Principal{Username: "rashid", Role: domain.RoleMunshi}
			return &ports.LoginResult{
				Principal:    principal,
				Screens:      rbac.ScreensFor(principal.Role),
				Capabilities: rbac.CapabilitiesFor(principal.Role),
			}, nil
		},
	}
	h := NewSessionHandler(sessions)

	c, rec := newJSONContext(t, http.MethodPost, "/session/login", `{"username":"rashid","password":"s3cret99"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success      bool     `json:"success"`
		RoleName     string   `json:"role_name"`
		Screens      []string `json:"screens"`
		Capabilities []string `json:"capabilities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success response")
	}
	if resp.RoleName != "Munshi (Manager)" {
		t.Fatalf("expected role display name, got %q", resp.RoleName)
	}
	if len(resp.Screens) == 0 || len(resp.Capabilities) == 0 {
		t.Fatalf("role grants missing from response: %+v", resp)
	}
	for _, s := range resp.Screens {
		if s == "users" {
			t.Fatalf("manager must not receive the users screen")
		}
	}
}

func TestSessionLogin_ValidationFailure(t *testing.T) {
	called := false
	sessions := &stubSessions{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			called = true
			return nil, nil
		},
	}
	h := NewSessionHandler(sessions)

	c, _ := newJSONContext(t, http.MethodPost, "/session/login", `{"username":"ab","password":"123"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if called {
		t.Fatalf("service must not be called on invalid payload")
	}
}

func TestSessionLogin_InvalidCredentialsPassThrough(t *testing.T) {
	sessions := &stubSessions{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewSessionHandler(sessions)

	c, _ := newJSONContext(t, http.MethodPost, "/session/login", `{"username":"rashid","password":"wrong-pw"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the error handler, got %v", err)
	}
}

func TestSessionLogout(t *testing.T) {
	cleared := false
	h := NewSessionHandler(&stubSessions{
		logoutFn: func(context.Context) error {
			cleared = true
			return nil
		},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/session/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !cleared {
		t.Fatalf("service logout not invoked")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionMe_UsesInjectedPrincipal(t *testing.T) {
	h := NewSessionHandler(&stubSessions{})

	c, rec := newJSONContext(t, http.MethodGet, "/session/me", "")
	c.Set("principal", domain.Principal{Username: "arif", Role: domain.RoleStockBoy})
	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}

	var resp struct {
		RoleName string   `json:"role_name"`
		Screens  []string `json:"screens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RoleName != "Stock Boy" {
		t.Fatalf("unexpected role name %q", resp.RoleName)
	}
	want := []string{"dashboard", "products", "inventory"}
	if len(resp.Screens) != len(want) {
		t.Fatalf("unexpected screens %v", resp.Screens)
	}
	for i, s := range want {
		if resp.Screens[i] != s {
			t.Fatalf("unexpected screens %v, want %v", resp.Screens, want)
		}
	}
}

func TestSessionUnlock(t *testing.T) {
	h := NewSessionHandler(&stubSessions{
		unlockFn: func(_ context.Context, password string) (*domain.Principal, error) {
			if password != "s3cret99" {
				return nil, domain.ErrInvalidCredentials
			}
			return &domain.Principal{Username: "rashid", Role: domain.RoleMunshi}, nil
		},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/session/unlock", `{"password":"s3cret99"}`)
	if err := h.Unlock(c); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newJSONContext(t, http.MethodPost, "/session/unlock", `{"password":"wrong-pw"}`)
	if err := h.Unlock(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
