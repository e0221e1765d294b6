package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/gateway"
)

func TestAddPoints_ParsesServerTotals(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile/add-points" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"device_id": "dev-1",
			"user_name": "Asha",
			"points":    37,
			"badges":    []string{"Starter"},
		})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, time.Second)
	remote, err := c.AddPoints(context.Background(), "dev-1", 10, "quest")
	if err != nil {
		t.Fatalf("add points: %v", err)
	}
	if remote.Points == nil || *remote.Points != 37 {
		t.Errorf("expected server points 37, got %v", remote.Points)
	}
	if remote.DisplayName == nil || *remote.DisplayName != "Asha" {
		t.Errorf("expected server name, got %v", remote.DisplayName)
	}
	if gotBody["device_id"] != "dev-1" || gotBody["delta"] != float64(10) || gotBody["reason"] != "quest" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
}

func TestFetchProfile_AbsentFieldsStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("deviceId"); got != "dev-2" {
			t.Errorf("expected deviceId query, got %q", got)
		}
		// A response without user_name/points means "no authoritative
		// value" — the client must not fabricate zeroes.
		json.NewEncoder(w).Encode(map[string]interface{}{"device_id": "dev-2"})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, time.Second)
	remote, err := c.FetchProfile(context.Background(), "dev-2")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if remote.Points != nil || remote.DisplayName != nil {
		t.Errorf("expected nil optionals, got %+v", remote)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		call   func(c *gateway.Client) error
		want   error
	}{
		{
			name:   "fetch 404",
			status: http.StatusNotFound,
			call: func(c *gateway.Client) error {
				_, err := c.FetchProfile(context.Background(), "dev")
				return err
			},
			want: domain.ErrProfileNotFound,
		},
		{
			name:   "login 401",
			status: http.StatusUnauthorized,
			call: func(c *gateway.Client) error {
				_, _, err := c.Login(context.Background(), "a@b.c", "pw")
				return err
			},
			want: domain.ErrInvalidCredentials,
		},
		{
			name:   "me 401",
			status: http.StatusUnauthorized,
			call: func(c *gateway.Client) error {
				_, err := c.CurrentUser(context.Background(), "stale-token")
				return err
			},
			want: domain.ErrNotAuthenticated,
		},
		{
			name:   "register 409",
			status: http.StatusConflict,
			call: func(c *gateway.Client) error {
				_, _, err := c.Register(context.Background(), "a@b.c", "pw", "A B")
				return err
			},
			want: domain.ErrEmailTaken,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			err := tc.call(gateway.New(srv.URL, time.Second))
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransportErrorIsGatewayUnavailable(t *testing.T) {
	// Nothing listens on this port.
	c := gateway.New("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.FetchProfile(context.Background(), "dev")
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestLogin_ReturnsTokenAndAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-abc",
			"user": map[string]interface{}{
				"id": 7, "email": "meera@example.org", "full_name": "Meera Patel",
			},
		})
	}))
	defer srv.Close()

	token, acct, err := gateway.New(srv.URL, time.Second).Login(context.Background(), "meera@example.org", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("token = %q", token)
	}
	if acct.ID != 7 || acct.Email != "meera@example.org" || acct.FullName != "Meera Patel" {
		t.Errorf("account = %+v", acct)
	}
}

func TestCurrentUser_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "email": "meera@example.org"})
	}))
	defer srv.Close()

	acct, err := gateway.New(srv.URL, time.Second).CurrentUser(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if acct.Email != "meera@example.org" {
		t.Errorf("account = %+v", acct)
	}
}
