package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// ProfileGateway is the remote profile service — the system of record for
// points, badges, and display names. Every call is best-effort from the
// engine's point of view: a failed call means "no authoritative update",
// never a rollback of local state.
type ProfileGateway interface {
	// InitProfile creates or fetches the profile for a device, optionally
	// seeding a display name on first creation.
	InitProfile(ctx context.Context, deviceID, nameHint string) (RemoteProfile, error)

	// FetchProfile reads the authoritative profile for a device.
	FetchProfile(ctx context.Context, deviceID string) (RemoteProfile, error)

	// AddPoints applies a signed delta server-side and returns the new
	// authoritative totals. The server may itself award badges.
	AddPoints(ctx context.Context, deviceID string, delta int, reason string) (RemoteProfile, error)

	// AwardBadge grants a badge (idempotent server-side) and returns the
	// authoritative badge set.
	AwardBadge(ctx context.Context, deviceID, badge string) (RemoteProfile, error)

	// SetDisplayName stores the chosen display name for a device.
	SetDisplayName(ctx context.Context, deviceID, name string) error
}

// AccountGateway is the remote auth service consumed by the auth bridge.
type AccountGateway interface {
	// Register creates an account and returns a bearer token.
	Register(ctx context.Context, email, password, fullName string) (token string, acct Account, err error)

	// Login authenticates and returns a bearer token.
	Login(ctx context.Context, email, password string) (token string, acct Account, err error)

	// CurrentUser resolves the account behind a bearer token.
	CurrentUser(ctx context.Context, token string) (Account, error)

	// LinkAccount ties a device-keyed profile to the token's account.
	LinkAccount(ctx context.Context, token, deviceID string) error
}

// SnapshotStore is the durable local store holding the last-known profile
// snapshot for instant reload. Writes are fire-and-forget from the
// engine's perspective — a failed save is non-fatal for the session.
type SnapshotStore interface {
	LoadSnapshot() (Profile, error)
	SaveSnapshot(Profile) error

	// SimpleMode is persisted under its own key as well, so the UI
	// preference survives even if the main snapshot write fails.
	SetSimpleMode(bool) error
	SimpleMode() (bool, error)
}

// TokenStore holds the auth bearer token between sessions.
type TokenStore interface {
	SaveToken(token string) error
	Token() (string, error) // ErrNotAuthenticated when absent
	ClearToken() error
}
