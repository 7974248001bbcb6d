package ports

import (
	"context"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
)

// LoginResult is what the session service hands back after a successful
// login: the operator plus the navigation the role is entitled to.
type LoginResult struct {
	Principal    domain.Principal
	Screens      []domain.Screen
	Capabilities []domain.Capability
}

// SessionService owns the terminal's single authenticated session.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Logout revokes the backend session on a best-effort basis and always
	// clears the local credential slots.
	Logout(ctx context.Context) error
	// Current returns the authenticated operator, or
	// domain.ErrNotAuthenticated when no session is held.
	Current(ctx context.Context) (*domain.Principal, error)
	// Unlock re-opens the UI without network access by verifying the
	// password against the offline key captured at login.
	Unlock(ctx context.Context, password string) (*domain.Principal, error)
}
