package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

// SessionService owns the terminal's single authenticated session: it logs
// in against the backend, persists the four credential slots, derives the
// current principal, and supports offline unlock when the backend is down.
type SessionService struct {
	backend ports.Backend
	store   ports.CredentialStore
	audit   ports.AuditSink
	log     zerolog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(backend ports.Backend, store ports.CredentialStore, audit ports.AuditSink, log zerolog.Logger) *SessionService {
	return &SessionService{backend: backend, store: store, audit: audit, log: log}
}

// Login authenticates against the backend and persists the access token,
// refresh token, session token, and cached profile. The profile also keeps
// a bcrypt hash of the password so Unlock can work offline later.
func (s *SessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	env, err := s.backend.Request(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		if env.Error == "connectivity" {
			return nil, domain.ErrBackendUnavailable
		}
		s.log.Warn().Str("username", username).Str("reason", env.Error).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	accessToken := env.StringField("access_token")
	if accessToken == "" {
		s.log.Error().Msg("login response missing access token")
		return nil, domain.ErrInvalidCredentials
	}

	profile := domain.StoredProfile{}
	if user, ok := env.Field("user").(map[string]any); ok {
		profile.User = user
	} else {
		profile.User = map[string]any{"username": username}
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		profile.OfflineKey = string(hash)
	}
	rawProfile, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	for slot, value := range map[ports.Slot]string{
		ports.SlotAccessToken:  accessToken,
		ports.SlotRefreshToken: env.StringField("refresh_token"),
		ports.SlotSessionToken: env.StringField("session_token"),
		ports.SlotProfile:      string(rawProfile),
	} {
		if err := s.store.Set(ctx, slot, value); err != nil {
			_ = s.store.Clear(ctx)
			return nil, err
		}
	}

	principal := s.principalFrom(accessToken, &profile)
	s.log.Info().Str("username", principal.Username).Str("role", string(principal.Role)).Msg("login succeeded")
	s.record(principal, "login", domain.AuditAllowed, "")

	return &ports.LoginResult{
		Principal:    principal,
		Screens:      rbac.ScreensFor(principal.Role),
		Capabilities: rbac.CapabilitiesFor(principal.Role),
	}, nil
}

// Logout revokes the backend session on a best-effort basis and always
// clears the local slots, even when the backend call fails.
func (s *SessionService) Logout(ctx context.Context) error {
	principal, _ := s.Current(ctx)

	if env, err := s.backend.Request(ctx, http.MethodPost, "/auth/logout", nil); err != nil || (env != nil && !env.Success) {
		s.log.Warn().Msg("backend logout failed, clearing local session anyway")
	}

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if principal != nil {
		s.record(*principal, "logout", domain.AuditAllowed, "")
	}
	return nil
}

// Current derives the authenticated principal from the stored access token
// claims, falling back to the cached profile when the token is unreadable.
func (s *SessionService) Current(ctx context.Context) (*domain.Principal, error) {
	token, err := s.store.Get(ctx, ports.SlotAccessToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	profile, _ := s.storedProfile(ctx)
	principal := s.principalFrom(token, profile)
	if principal.Username == "" && principal.Role == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return &principal, nil
}

// Unlock verifies the password against the offline key captured at login,
// re-opening the UI without any backend round trip.
func (s *SessionService) Unlock(ctx context.Context, password string) (*domain.Principal, error) {
	profile, err := s.storedProfile(ctx)
	if err != nil || profile == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if profile.OfflineKey == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.OfflineKey), []byte(password)) != nil {
		principal := profile.Principal()
		s.record(principal, "unlock", domain.AuditDenied, "offline key mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	principal := profile.Principal()
	s.record(principal, "unlock", domain.AuditAllowed, "")
	return &principal, nil
}

// principalFrom reads identity claims straight out of the access token.
// The terminal holds no signing secret, so the parse is unverified; the
// backend re-checks the signature on every call. The cached profile fills
// in anything the claims lack.
func (s *SessionService) principalFrom(token string, profile *domain.StoredProfile) domain.Principal {
	principal := domain.Principal{}
	if profile != nil {
		principal = profile.Principal()
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return principal
	}
	if v, ok := claims["username"].(string); ok && v != "" {
		principal.Username = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		principal.Role = domain.Role(v)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		principal.ExpiresAt = exp.Time
	}
	return principal
}

func (s *SessionService) storedProfile(ctx context.Context) (*domain.StoredProfile, error) {
	raw, err := s.store.Get(ctx, ports.SlotProfile)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	profile := &domain.StoredProfile{}
	if err := json.Unmarshal([]byte(raw), profile); err != nil {
		return nil, nil
	}
	return profile, nil
}

func (s *SessionService) record(p domain.Principal, action string, decision domain.AuditDecision, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		At:       time.Now().UTC(),
		Actor:    p.Username,
		Role:     p.Role,
		Action:   action,
		Decision: decision,
		Reason:   reason,
	})
}
