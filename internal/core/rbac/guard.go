package rbac

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// Guard is the click-time enforcement point in front of navigation and
// privileged actions. It re-checks the table even when the UI already hid
// the control, records every denial in the audit trail, and returns a
// domain error the transport layer turns into a user-visible notice.
type Guard struct {
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewGuard(audit ports.AuditSink, log zerolog.Logger) *Guard {
	return &Guard{audit: audit, log: log}
}

// RequireScreen rejects with domain.ErrScreenDenied unless the principal's
// role may reach the screen.
func (g *Guard) RequireScreen(p domain.Principal, screen domain.Screen) error {
	if CanAccessScreen(p.Role, screen) {
		return nil
	}
	g.deny(p, screen, "navigate", "screen not permitted for role")
	return domain.ErrScreenDenied
}

// RequireCapability rejects with domain.ErrCapabilityDenied unless the
// principal's role holds the capability.
func (g *Guard) RequireCapability(p domain.Principal, cap domain.Capability) error {
	if HasCapability(p.Role, cap) {
		return nil
	}
	g.deny(p, "", string(cap), "capability not held by role")
	return domain.ErrCapabilityDenied
}

func (g *Guard) deny(p domain.Principal, screen domain.Screen, action, reason string) {
	g.log.Warn().
		Str("actor", p.Username).
		Str("role", string(p.Role)).
		Str("screen", string(screen)).
		Str("action", action).
		Msg("access denied")

	if g.audit == nil {
		return
	}
	g.audit.Record(domain.AuditEvent{
		At:       time.Now().UTC(),
		Actor:    p.Username,
		Role:     p.Role,
		Screen:   screen,
		Action:   action,
		Decision: domain.AuditDenied,
		Reason:   reason,
	})
}
