package domain

import "time"

// AuditDecision classifies the outcome an audit event records.
type AuditDecision string

const (
	AuditAllowed AuditDecision = "allowed"
	AuditDenied  AuditDecision = "denied"
)

// AuditEvent records one security-relevant occurrence on this terminal:
// a session event (login, logout, refresh failure) or an RBAC decision.
type AuditEvent struct {
	At       time.Time     `json:"at" bson:"at"`
	Actor    string        `json:"actor" bson:"actor"`
	Role     Role          `json:"role" bson:"role"`
	Screen   Screen        `json:"screen,omitempty" bson:"screen,omitempty"`
	Action   string        `json:"action" bson:"action"`
	Decision AuditDecision `json:"decision" bson:"decision"`
	Reason   string        `json:"reason,omitempty" bson:"reason,omitempty"`
}
