// Package gateway implements the HTTP client for the remote profile
// service — the system of record for points, badges, and accounts.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/metrics"
)

// Client talks to the profile service REST API. It implements
// domain.ProfileGateway and domain.AccountGateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a gateway client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ─── Wire Types ─────────────────────────────────────────────────────────────
// These mirror the profile service's JSON schemas.

type profileOut struct {
	DeviceID   string   `json:"device_id"`
	UserName   *string  `json:"user_name"`
	Points     *int     `json:"points"`
	Badges     []string `json:"badges"`
	StreakDays int      `json:"streak_days"`
}

func (p profileOut) remote() domain.RemoteProfile {
	return domain.RemoteProfile{
		DisplayName: p.UserName,
		Points:      p.Points,
		Badges:      p.Badges,
	}
}

type userOut struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (u userOut) account() domain.Account {
	return domain.Account{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

type tokenOut struct {
	AccessToken string  `json:"access_token"`
	User        userOut `json:"user"`
}

// ─── ProfileGateway ─────────────────────────────────────────────────────────

// InitProfile creates or fetches the profile for a device.
func (c *Client) InitProfile(ctx context.Context, deviceID, nameHint string) (domain.RemoteProfile, error) {
	body := map[string]string{"device_id": deviceID}
	if nameHint != "" {
		body["user_name"] = nameHint
	}
	var out profileOut
	if err := c.postJSON(ctx, "init", "/api/profile/init", "", body, &out); err != nil {
		return domain.RemoteProfile{}, err
	}
	return out.remote(), nil
}

// FetchProfile reads the authoritative profile for a device.
func (c *Client) FetchProfile(ctx context.Context, deviceID string) (domain.RemoteProfile, error) {
	var out profileOut
	q := url.Values{"deviceId": {deviceID}}
	if err := c.getJSON(ctx, "fetch", "/api/profile?"+q.Encode(), &out); err != nil {
		return domain.RemoteProfile{}, err
	}
	return out.remote(), nil
}

// AddPoints applies a signed delta server-side and returns new totals.
func (c *Client) AddPoints(ctx context.Context, deviceID string, delta int, reason string) (domain.RemoteProfile, error) {
	body := map[string]interface{}{
		"device_id": deviceID,
		"delta":     delta,
		"reason":    reason,
	}
	var out profileOut
	if err := c.postJSON(ctx, "add_points", "/api/profile/add-points", "", body, &out); err != nil {
		return domain.RemoteProfile{}, err
	}
	return out.remote(), nil
}

// AwardBadge grants a badge (idempotent server-side).
func (c *Client) AwardBadge(ctx context.Context, deviceID, badge string) (domain.RemoteProfile, error) {
	body := map[string]string{"device_id": deviceID, "badge": badge}
	var out profileOut
	if err := c.postJSON(ctx, "award_badge", "/api/profile/award-badge", "", body, &out); err != nil {
		return domain.RemoteProfile{}, err
	}
	return out.remote(), nil
}

// SetDisplayName stores the chosen display name for a device.
func (c *Client) SetDisplayName(ctx context.Context, deviceID, name string) error {
	body := map[string]string{"device_id": deviceID, "user_name": name}
	return c.postJSON(ctx, "set_name", "/api/profile/name", "", body, nil)
}

// ─── AccountGateway ─────────────────────────────────────────────────────────

// Register creates an account and returns a bearer token.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (string, domain.Account, error) {
	body := map[string]string{"email": email, "password": password, "full_name": fullName}
	var out tokenOut
	if err := c.postJSON(ctx, "register", "/api/auth/register", "", body, &out); err != nil {
		return "", domain.Account{}, err
	}
	return out.AccessToken, out.User.account(), nil
}

// Login authenticates and returns a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, domain.Account, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenOut
	if err := c.postJSON(ctx, "login", "/api/auth/login", "", body, &out); err != nil {
		return "", domain.Account{}, err
	}
	return out.AccessToken, out.User.account(), nil
}

// CurrentUser resolves the account behind a bearer token.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return domain.Account{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out userOut
	if err := c.do("me", req, &out); err != nil {
		return domain.Account{}, err
	}
	return out.account(), nil
}

// LinkAccount ties a device-keyed profile to the token's account.
func (c *Client) LinkAccount(ctx context.Context, token, deviceID string) error {
	body := map[string]string{"device_id": deviceID}
	return c.postJSON(ctx, "link_device", "/api/auth/link-device", token, body, nil)
}

// ─── HTTP Plumbing ──────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op, path, token string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("%w: %s: %v", domain.ErrGatewayUnavailable, op, err)
	}
	defer resp.Body.Close()
	metrics.GatewayRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode/100 != 2 {
		return statusError(op, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// statusError maps non-2xx responses to sentinel errors where the status
// has a defined meaning for the caller.
func statusError(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrProfileNotFound
	case http.StatusUnauthorized:
		if op == "login" {
			return domain.ErrInvalidCredentials
		}
		return domain.ErrNotAuthenticated
	case http.StatusConflict:
		return domain.ErrEmailTaken
	}
	return fmt.Errorf("%s: gateway returned %d: %s", op, resp.StatusCode, bytes.TrimSpace(detail))
}
