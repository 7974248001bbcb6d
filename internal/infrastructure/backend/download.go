package backend

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// Download fetches a raw byte stream (report exports, backups) with the same
// auth headers and one-shot 401 refresh as Request, but without attempting
// to parse the success body as JSON.
func (c *Client) Download(ctx context.Context, urlPath string) (*domain.Attachment, error) {
	token, _ := c.store.Get(ctx, ports.SlotAccessToken)

	resp, raw, err := c.do(ctx, http.MethodGet, urlPath, nil, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		newToken, refreshErr := c.refreshAccessToken(ctx)
		switch {
		case refreshErr == nil:
			resp, raw, err = c.do(ctx, http.MethodGet, urlPath, nil, newToken)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
			}
		case errors.Is(refreshErr, errRefreshUnavailable):
			return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, refreshErr)
		default:
			_ = c.store.Clear(context.WithoutCancel(ctx))
			return nil, domain.ErrSessionExpired
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: %s", urlPath, resp.Status)
	}

	return &domain.Attachment{
		Filename:    attachmentFilename(resp.Header.Get("Content-Disposition"), urlPath),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     raw,
	}, nil
}

// attachmentFilename prefers the server-provided Content-Disposition
// filename and falls back to the last path segment.
func attachmentFilename(disposition, urlPath string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	trimmed, _, _ := strings.Cut(urlPath, "?")
	return path.Base(trimmed)
}
