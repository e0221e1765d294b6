// Package auth is the bridge between the device-keyed profile and the
// remote account service: login/register, session resume, device linking,
// and the display-name fallback rules.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/agripath-app/agripath/internal/app/engine"
	"github.com/agripath-app/agripath/internal/domain"
)

// Bridge links an authenticated account to the device-identified profile.
type Bridge struct {
	accounts domain.AccountGateway
	tokens   domain.TokenStore
	engine   *engine.Engine
	deviceID string
}

// New creates an auth bridge.
func New(accounts domain.AccountGateway, tokens domain.TokenStore, eng *engine.Engine, deviceID string) *Bridge {
	return &Bridge{accounts: accounts, tokens: tokens, engine: eng, deviceID: deviceID}
}

// Resume restores an existing session at startup: if a token is stored,
// it resolves the account, links the device, and attaches the account to
// the engine (seeding a display name only when none exists locally).
// A missing or expired session is not an error.
func (b *Bridge) Resume(ctx context.Context) error {
	token, err := b.tokens.Token()
	if err != nil {
		return nil // no stored session
	}

	acct, err := b.accounts.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			// Token expired — drop it, continue anonymous.
			if cerr := b.tokens.ClearToken(); cerr != nil {
				log.Printf("[auth] clear stale token: %v", cerr)
			}
			return nil
		}
		log.Printf("[auth] session resume failed (continuing anonymous): %v", err)
		return nil
	}

	b.attach(ctx, token, acct)
	return nil
}

// Login authenticates and links this device to the account. Bad
// credentials surface domain.ErrInvalidCredentials; profile state is not
// mutated on failure.
func (b *Bridge) Login(ctx context.Context, email, password string) error {
	token, acct, err := b.accounts.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := b.tokens.SaveToken(token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	b.attach(ctx, token, acct)
	return nil
}

// Register creates an account, then proceeds exactly like Login. A taken
// email surfaces domain.ErrEmailTaken.
func (b *Bridge) Register(ctx context.Context, email, password, fullName string) error {
	token, acct, err := b.accounts.Register(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	if err := b.tokens.SaveToken(token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	b.attach(ctx, token, acct)
	return nil
}

// Logout clears the session and the local display name. Device-keyed
// remote state stays intact.
func (b *Bridge) Logout() error {
	b.engine.DetachAccount()
	return b.tokens.ClearToken()
}

// CurrentAccount resolves the account for the stored session.
func (b *Bridge) CurrentAccount(ctx context.Context) (domain.Account, error) {
	token, err := b.tokens.Token()
	if err != nil {
		return domain.Account{}, err
	}
	return b.accounts.CurrentUser(ctx, token)
}

// attach links the device and hands the account to the engine. Linking is
// best-effort: a failed link keeps the session usable and the link is
// retried on the next resume.
func (b *Bridge) attach(ctx context.Context, token string, acct domain.Account) {
	if err := b.accounts.LinkAccount(ctx, token, b.deviceID); err != nil {
		log.Printf("[auth] device link failed: %v", err)
	}
	b.engine.AttachAccount(acct)
}
