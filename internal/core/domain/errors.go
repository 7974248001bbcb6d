package domain

import "errors"

var (
	// ErrSessionExpired is terminal: the refresh flow failed (or no refresh
	// token was held) and all credentials have been wiped. The caller must
	// send the operator back to the login view.
	ErrSessionExpired = errors.New("session expired")

	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrScreenDenied       = errors.New("screen access denied")
	ErrCapabilityDenied   = errors.New("action not permitted")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnsupportedMethod  = errors.New("unsupported HTTP method")
)
