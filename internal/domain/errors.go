package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Profile errors
	ErrProfileNotFound  = errors.New("profile not found for device")
	ErrEmptyName        = errors.New("display name must not be empty")
	ErrNonPositiveDelta = errors.New("point delta must be positive")
	ErrEmptyBadge       = errors.New("badge name must not be empty")

	// Gateway errors
	ErrGatewayUnavailable = errors.New("profile gateway unreachable")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAuthenticated   = errors.New("no authenticated session")
)
