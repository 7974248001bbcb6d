// Package backend implements the HTTP client for the central POS backend.
// Every outbound call goes through here: auth header injection, response
// normalization into domain.Envelope, and a one-shot token refresh on 401.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/autoaccessories/pos-gateway/internal/api/metrics"
	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

const (
	sessionHeader  = "X-Session-Token"
	refreshPath    = "/auth/refresh"
	defaultTimeout = 15 * time.Second
)

// errRefreshUnavailable marks a refresh attempt that never got an HTTP
// status back from the backend. The refresh token has not been ruled
// invalid, so credentials must survive.
var errRefreshUnavailable = errors.New("refresh unavailable")

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:8000".
	BaseURL string
	// HTTPClient is the transport; a default with defaultTimeout is used
	// when nil. Timeout policy lives entirely in the transport.
	HTTPClient *http.Client
	// DomainKeys extends the recognized payload key table used during
	// response normalization (see normalize.go).
	DomainKeys []string
	Logger     zerolog.Logger
}

// Client is the API gateway client. It is safe for concurrent use;
// simultaneous 401s share a single in-flight refresh.
type Client struct {
	baseURL string
	http    *http.Client
	store   ports.CredentialStore
	keys    map[string]struct{}
	refresh singleflight.Group
	log     zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

func NewClient(store ports.CredentialStore, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	keys := make(map[string]struct{}, len(defaultDomainKeys)+len(opts.DomainKeys))
	for _, k := range defaultDomainKeys {
		keys[k] = struct{}{}
	}
	for _, k := range opts.DomainKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		store:   store,
		keys:    keys,
		log:     opts.Logger,
	}
}

// Request performs a JSON API call and normalizes whatever comes back.
//
// Failure semantics: transport and business failures are reported inside
// the envelope (Success=false), never as a Go error, so screen code can
// render an inline message without special-casing. The only errors returned
// are a bad method/body and domain.ErrSessionExpired.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*domain.Envelope, error) {
	if !allowedMethod(method) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMethod, method)
	}

	payload, err := encodeBody(method, body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	token, _ := c.store.Get(ctx, ports.SlotAccessToken)

	resp, raw, netErr := c.do(ctx, method, path, payload, token)
	if netErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn().Err(netErr).Str("method", method).Str("path", path).Msg("backend unreachable")
		return domain.Failure("connectivity"), nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		newToken, refreshErr := c.refreshAccessToken(ctx)
		switch {
		case refreshErr == nil:
			resp, raw, netErr = c.do(ctx, method, path, payload, newToken)
			if netErr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return domain.Failure("connectivity"), nil
			}
		case errors.Is(refreshErr, errRefreshUnavailable):
			// The backend never ruled on the refresh token; the session
			// may still be valid, so credentials survive.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return domain.Failure("connectivity"), nil
		default:
			// The backend rejected the refresh token, or none was held:
			// wipe every credential slot and signal the terminal condition.
			_ = c.store.Clear(context.WithoutCancel(ctx))
			return nil, domain.ErrSessionExpired
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Failure(errorMessage(raw, resp.Status)), nil
	}

	return normalize(raw, c.keys), nil
}

// do issues a single HTTP attempt. A fresh body reader is built per attempt
// so the 401 retry resends the full payload.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.setAuthHeaders(ctx, req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, raw, nil
}

func (c *Client) setAuthHeaders(ctx context.Context, req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if session, _ := c.store.Get(ctx, ports.SlotSessionToken); session != "" {
		req.Header.Set(sessionHeader, session)
	}
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers coalesce onto one upstream refresh; the new
// token is durably stored before any retry is issued, so requests starting
// mid-refresh observe the fresh token rather than racing on the old one.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		// The flight is shared by every coalesced caller, so it runs on a
		// detached context: one caller abandoning its request must not kill
		// the refresh (and with it the session) for the others. The
		// transport timeout still bounds the upstream call.
		refreshCtx := context.WithoutCancel(ctx)

		refreshToken, err := c.store.Get(refreshCtx, ports.SlotRefreshToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errRefreshUnavailable, err)
		}
		if refreshToken == "" {
			return nil, domain.ErrSessionExpired
		}

		payload, _ := json.Marshal(map[string]string{"refresh_token": refreshToken})
		resp, raw, err := c.do(refreshCtx, http.MethodPost, refreshPath, payload, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errRefreshUnavailable, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("refresh rejected: %s", resp.Status)
		}

		token := accessTokenFrom(raw)
		if token == "" {
			return nil, fmt.Errorf("refresh response missing access token")
		}
		if err := c.store.Set(refreshCtx, ports.SlotAccessToken, token); err != nil {
			return nil, fmt.Errorf("%w: persist refreshed token: %v", errRefreshUnavailable, err)
		}
		c.log.Info().Msg("access token refreshed")
		return token, nil
	})
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		c.log.Warn().Err(err).Msg("token refresh failed")
		return "", err
	}
	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	return v.(string), nil
}

// accessTokenFrom digs the new access token out of the refresh response,
// accepting both the bare token payload and an enveloped one.
func accessTokenFrom(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if tok, ok := body["access_token"].(string); ok {
		return tok
	}
	if data, ok := body["data"].(map[string]any); ok {
		if tok, ok := data["access_token"].(string); ok {
			return tok
		}
	}
	return ""
}

// errorMessage extracts a human-readable failure message from a non-2xx
// body, falling back to the HTTP status line.
func errorMessage(raw []byte, status string) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return status
}

func encodeBody(method string, body any) ([]byte, error) {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, nil
	}
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

func allowedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
