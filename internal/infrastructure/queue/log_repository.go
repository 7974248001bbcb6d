package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// LogAuditRepository writes audit events to the structured log. It is the
// fallback sink for terminals deployed without MongoDB.
type LogAuditRepository struct {
	log zerolog.Logger
}

var _ ports.AuditRepository = (*LogAuditRepository)(nil)

func NewLogAuditRepository(log zerolog.Logger) *LogAuditRepository {
	return &LogAuditRepository{log: log}
}

func (r *LogAuditRepository) Insert(_ context.Context, event domain.AuditEvent) error {
	r.log.Info().
		Time("at", event.At).
		Str("actor", event.Actor).
		Str("role", string(event.Role)).
		Str("screen", string(event.Screen)).
		Str("action", event.Action).
		Str("decision", string(event.Decision)).
		Str("reason", event.Reason).
		Msg("audit")
	return nil
}
