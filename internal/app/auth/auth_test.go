package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agripath-app/agripath/internal/app/auth"
	"github.com/agripath-app/agripath/internal/app/engine"
	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/sqlite"
)

// nopProfileGateway satisfies domain.ProfileGateway with successful no-ops
// so the engine under the bridge can run.
type nopProfileGateway struct{}

func (nopProfileGateway) InitProfile(context.Context, string, string) (domain.RemoteProfile, error) {
	return domain.RemoteProfile{}, nil
}
func (nopProfileGateway) FetchProfile(context.Context, string) (domain.RemoteProfile, error) {
	return domain.RemoteProfile{}, nil
}
func (nopProfileGateway) AddPoints(context.Context, string, int, string) (domain.RemoteProfile, error) {
	return domain.RemoteProfile{}, nil
}
func (nopProfileGateway) AwardBadge(context.Context, string, string) (domain.RemoteProfile, error) {
	return domain.RemoteProfile{}, nil
}
func (nopProfileGateway) SetDisplayName(context.Context, string, string) error { return nil }

type fakeAccounts struct {
	account    domain.Account
	token      string
	loginErr   error
	currentErr error
	linked     []string
}

func (f *fakeAccounts) Register(ctx context.Context, email, password, fullName string) (string, domain.Account, error) {
	if f.loginErr != nil {
		return "", domain.Account{}, f.loginErr
	}
	return f.token, f.account, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (string, domain.Account, error) {
	if f.loginErr != nil {
		return "", domain.Account{}, f.loginErr
	}
	return f.token, f.account, nil
}

func (f *fakeAccounts) CurrentUser(ctx context.Context, token string) (domain.Account, error) {
	if f.currentErr != nil {
		return domain.Account{}, f.currentErr
	}
	return f.account, nil
}

func (f *fakeAccounts) LinkAccount(ctx context.Context, token, deviceID string) error {
	f.linked = append(f.linked, deviceID)
	return nil
}

type memTokens struct {
	token string
}

func (m *memTokens) SaveToken(t string) error { m.token = t; return nil }
func (m *memTokens) Token() (string, error) {
	if m.token == "" {
		return "", domain.ErrNotAuthenticated
	}
	return m.token, nil
}
func (m *memTokens) ClearToken() error { m.token = ""; return nil }

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := engine.New(engine.Config{Gateway: nopProfileGateway{}, Store: db, Ledger: db})
	if err := eng.Initialize(context.Background(), "device-auth-test"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return eng
}

func TestLogin_StoresTokenAndAttaches(t *testing.T) {
	eng := testEngine(t)
	accounts := &fakeAccounts{
		token:   "tok-1",
		account: domain.Account{ID: 4, Email: "ravi@example.org", FullName: "Ravi S"},
	}
	tokens := &memTokens{}
	bridge := auth.New(accounts, tokens, eng, "device-auth-test")

	if err := bridge.Login(context.Background(), "ravi@example.org", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	eng.Wait()

	if tokens.token != "tok-1" {
		t.Errorf("token not stored: %q", tokens.token)
	}
	if len(accounts.linked) != 1 || accounts.linked[0] != "device-auth-test" {
		t.Errorf("device not linked: %v", accounts.linked)
	}
	p := eng.Snapshot()
	if p.Account == nil || p.Account.Email != "ravi@example.org" {
		t.Errorf("account not attached: %+v", p.Account)
	}
	if p.DisplayName != "Ravi S" {
		t.Errorf("expected seeded name, got %q", p.DisplayName)
	}
}

func TestLogin_BadCredentialsLeaveStateUntouched(t *testing.T) {
	eng := testEngine(t)
	accounts := &fakeAccounts{loginErr: domain.ErrInvalidCredentials}
	tokens := &memTokens{}
	bridge := auth.New(accounts, tokens, eng, "device-auth-test")

	err := bridge.Login(context.Background(), "ravi@example.org", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if tokens.token != "" {
		t.Errorf("token stored on failed login")
	}
	if eng.Snapshot().Account != nil {
		t.Errorf("account attached on failed login")
	}
}

func TestResume_NoStoredSessionIsFine(t *testing.T) {
	eng := testEngine(t)
	bridge := auth.New(&fakeAccounts{}, &memTokens{}, eng, "device-auth-test")

	if err := bridge.Resume(context.Background()); err != nil {
		t.Fatalf("resume without session must succeed: %v", err)
	}
	if eng.Snapshot().Account != nil {
		t.Errorf("account attached without session")
	}
}

func TestResume_ExpiredTokenIsCleared(t *testing.T) {
	eng := testEngine(t)
	accounts := &fakeAccounts{currentErr: domain.ErrNotAuthenticated}
	tokens := &memTokens{token: "stale"}
	bridge := auth.New(accounts, tokens, eng, "device-auth-test")

	if err := bridge.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if tokens.token != "" {
		t.Errorf("stale token not cleared")
	}
	if eng.Snapshot().Account != nil {
		t.Errorf("account attached with expired token")
	}
}

func TestResume_GatewayDownKeepsTokenAndStaysAnonymous(t *testing.T) {
	eng := testEngine(t)
	accounts := &fakeAccounts{currentErr: domain.ErrGatewayUnavailable}
	tokens := &memTokens{token: "tok-1"}
	bridge := auth.New(accounts, tokens, eng, "device-auth-test")

	if err := bridge.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if tokens.token != "tok-1" {
		t.Errorf("token dropped on transient failure")
	}
	if eng.Snapshot().Account != nil {
		t.Errorf("account attached while gateway down")
	}
}

func TestLogout_ClearsSessionAndName(t *testing.T) {
	eng := testEngine(t)
	accounts := &fakeAccounts{token: "tok-1", account: domain.Account{ID: 4, Email: "ravi@example.org"}}
	tokens := &memTokens{}
	bridge := auth.New(accounts, tokens, eng, "device-auth-test")

	if err := bridge.Login(context.Background(), "ravi@example.org", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	eng.Wait()
	if err := bridge.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if tokens.token != "" {
		t.Errorf("token survives logout")
	}
	p := eng.Snapshot()
	if p.Account != nil || p.DisplayName != "" {
		t.Errorf("logout left account state: %+v", p)
	}
}
