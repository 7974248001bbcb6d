package ports

import (
	"context"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the caller. A full sink
// may drop events; it must never stall a sale.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
