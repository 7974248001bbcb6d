package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

type stubBackend struct {
	requestFn  func(ctx context.Context, method, path string, body any) (*domain.Envelope, error)
	downloadFn func(ctx context.Context, path string) (*domain.Attachment, error)
}

func (s *stubBackend) Request(ctx context.Context, method, path string, body any) (*domain.Envelope, error) {
	return s.requestFn(ctx, method, path, body)
}

func (s *stubBackend) Download(ctx context.Context, path string) (*domain.Attachment, error) {
	if s.downloadFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.downloadFn(ctx, path)
}

type memStore struct {
	slots map[ports.Slot]string
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[ports.Slot]string)}
}

func (m *memStore) Get(_ context.Context, slot ports.Slot) (string, error) {
	return m.slots[slot], nil
}

func (m *memStore) Set(_ context.Context, slot ports.Slot, value string) error {
	m.slots[slot] = value
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.slots = make(map[ports.Slot]string)
	return nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func loginEnvelope(t *testing.T, username string) *domain.Envelope {
	t.Helper()
	return &domain.Envelope{
		Success: true,
		Fields: map[string]any{
			"access_token": signedToken(t, jwt.MapClaims{
				"username": username,
				"role":     "munshi",
				"exp":      time.Now().Add(time.Hour).Unix(),
			}),
			"refresh_token": "ref-1",
			"session_token": "sess-1",
			"user": map[string]any{
				"username":  username,
				"full_name": "Rashid Mahmood",
				"role":      "munshi",
			},
		},
	}
}

func TestLogin_PersistsAllSlots(t *testing.T) {
	backend := &stubBackend{
		requestFn: func(_ context.Context, method, path string, body any) (*domain.Envelope, error) {
			if method != http.MethodPost || path != "/auth/login" {
				t.Fatalf("unexpected backend call %s %s", method, path)
			}
			creds := body.(map[string]string)
			if creds["username"] != "rashid" || creds["password"] != "s3cret99" {
				t.Fatalf("credentials not forwarded: %v", creds)
			}
			return loginEnvelope(t, "rashid"), nil
		},
	}
	store := newMemStore()
	svc := NewSessionService(backend, store, nil, zerolog.Nop())

	result, err := svc.Login(context.Background(), "rashid", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Principal.Username != "rashid" {
		t.Fatalf("wrong principal %+v", result.Principal)
	}
	if result.Principal.Role != domain.RoleMunshi {
		t.Fatalf("wrong role %q", result.Principal.Role)
	}
	if len(result.Screens) == 0 || len(result.Capabilities) == 0 {
		t.Fatalf("login result missing role grants: %+v", result)
	}

	for _, slot := range ports.Slots {
		if v, _ := store.Get(context.Background(), slot); v == "" {
			t.Fatalf("slot %s not populated by login", slot)
		}
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	backend := &stubBackend{
		requestFn: func(context.Context, string, string, any) (*domain.Envelope, error) {
			return domain.Failure("invalid username or password"), nil
		},
	}
	store := newMemStore()
	svc := NewSessionService(backend, store, nil, zerolog.Nop())

	_, err := svc.Login(context.Background(), "rashid", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if v, _ := store.Get(context.Background(), ports.SlotAccessToken); v != "" {
		t.Fatalf("failed login must not persist credentials")
	}
}

func TestLogin_BackendDown(t *testing.T) {
	backend := &stubBackend{
		requestFn: func(context.Context, string, string, any) (*domain.Envelope, error) {
			return domain.Failure("connectivity"), nil
		},
	}
	svc := NewSessionService(backend, newMemStore(), nil, zerolog.Nop())

	_, err := svc.Login(context.Background(), "rashid", "s3cret99")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := NewSessionService(&stubBackend{
		requestFn: func(context.Context, string, string, any) (*domain.Envelope, error) {
			t.Fatalf("backend must not be called with empty credentials")
			return nil, nil
		},
	}, newMemStore(), nil, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	backend := &stubBackend{
		requestFn: func(_ context.Context, method, path string, _ any) (*domain.Envelope, error) {
			if path == "/auth/logout" {
				return nil, domain.ErrSessionExpired
			}
			return loginEnvelope(t, "rashid"), nil
		},
	}
	store := newMemStore()
	svc := NewSessionService(backend, store, nil, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "rashid", "s3cret99"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout must succeed locally: %v", err)
	}
	for _, slot := range ports.Slots {
		if v, _ := store.Get(context.Background(), slot); v != "" {
			t.Fatalf("slot %s survived logout", slot)
		}
	}
}

func TestCurrent_DerivesPrincipalFromToken(t *testing.T) {
	store := newMemStore()
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	_ = store.Set(context.Background(), ports.SlotAccessToken, signedToken(t, jwt.MapClaims{
		"username": "bilal",
		"role":     "shop_boy",
		"exp":      exp.Unix(),
	}))
	svc := NewSessionService(&stubBackend{}, store, nil, zerolog.Nop())

	principal, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if principal.Username != "bilal" || principal.Role != domain.RoleShopBoy {
		t.Fatalf("wrong principal %+v", principal)
	}
	if !principal.ExpiresAt.Equal(exp) {
		t.Fatalf("expiry not carried over: got %v want %v", principal.ExpiresAt, exp)
	}
}

func TestCurrent_NoSession(t *testing.T) {
	svc := NewSessionService(&stubBackend{}, newMemStore(), nil, zerolog.Nop())
	if _, err := svc.Current(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCurrent_OpaqueTokenFallsBackToProfile(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), ports.SlotAccessToken, "opaque-session-token")
	_ = store.Set(context.Background(), ports.SlotProfile, `{"user":{"username":"ali","role":"malik"}}`)
	svc := NewSessionService(&stubBackend{}, store, nil, zerolog.Nop())

	principal, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if principal.Username != "ali" || principal.Role != domain.RoleMalik {
		t.Fatalf("profile fallback failed: %+v", principal)
	}
}

func TestUnlock_Offline(t *testing.T) {
	// Login once against a reachable backend, then unlock with the backend
	// gone entirely.
	backend := &stubBackend{
		requestFn: func(context.Context, string, string, any) (*domain.Envelope, error) {
			return loginEnvelope(t, "rashid"), nil
		},
	}
	store := newMemStore()
	svc := NewSessionService(backend, store, nil, zerolog.Nop())
	if _, err := svc.Login(context.Background(), "rashid", "s3cret99"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	offline := NewSessionService(&stubBackend{
		requestFn: func(context.Context, string, string, any) (*domain.Envelope, error) {
			t.Fatalf("unlock must not touch the backend")
			return nil, nil
		},
	}, store, nil, zerolog.Nop())

	principal, err := offline.Unlock(context.Background(), "s3cret99")
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if principal.Username != "rashid" {
		t.Fatalf("wrong principal %+v", principal)
	}

	if _, err := offline.Unlock(context.Background(), "wrong-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUnlock_WithoutSession(t *testing.T) {
	svc := NewSessionService(&stubBackend{}, newMemStore(), nil, zerolog.Nop())
	if _, err := svc.Unlock(context.Background(), "pw"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
