package ports

import (
	"context"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
)

// Backend is the single choke point for every call to the central POS
// backend. Implementations attach auth headers, normalize the response into
// a domain.Envelope, and transparently refresh an expired access token once
// before failing the caller with domain.ErrSessionExpired.
type Backend interface {
	// Request performs a JSON API call. method must be one of GET, POST,
	// PUT, PATCH, DELETE; body is attached only for POST/PUT/PATCH.
	// Transport and business failures come back inside the envelope with
	// Success=false; the error return is reserved for terminal conditions.
	Request(ctx context.Context, method, path string, body any) (*domain.Envelope, error)

	// Download fetches a raw byte stream (report exports and the like) with
	// the same auth headers and refresh behaviour, skipping JSON parsing.
	Download(ctx context.Context, path string) (*domain.Attachment, error)
}
