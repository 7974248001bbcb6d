package ports

import "context"

// Slot names one of the logical credential slots persisted between restarts.
type Slot string

const (
	SlotAccessToken  Slot = "access_token"
	SlotRefreshToken Slot = "refresh_token"
	SlotSessionToken Slot = "session_token"
	SlotProfile      Slot = "user_profile"
)

// Slots lists every credential slot. Clear wipes them all together.
var Slots = []Slot{SlotAccessToken, SlotRefreshToken, SlotSessionToken, SlotProfile}

// CredentialStore persists the terminal's session credentials. The gateway
// client and session service are the only writers.
type CredentialStore interface {
	// Get returns the slot value, or "" when the slot is empty.
	Get(ctx context.Context, slot Slot) (string, error)
	Set(ctx context.Context, slot Slot, value string) error
	// Clear wipes every slot. Used at logout and on unrecoverable auth
	// failure; must be idempotent.
	Clear(ctx context.Context) error
}
