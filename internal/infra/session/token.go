// Package session stores the auth bearer token between runs. The system
// keyring is preferred; headless machines (field kiosks, CI) fall back to
// a mode-0600 file under the data directory.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/agripath-app/agripath/internal/domain"
)

const (
	keyringService = "AgriPath"
	keyringKey     = "auth_token"
	tokenFileName  = "session.token"
)

// Store implements domain.TokenStore.
type Store struct {
	dir string // fallback file location
}

// NewStore creates a token store with file fallback under dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SaveToken persists the bearer token.
func (s *Store) SaveToken(token string) error {
	if err := keyring.Set(keyringService, keyringKey, token); err == nil {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), []byte(token), 0600)
}

// Token returns the stored token, or ErrNotAuthenticated when absent.
func (s *Store) Token() (string, error) {
	token, err := keyring.Get(keyringService, keyringKey)
	if err == nil && token != "" {
		return token, nil
	}
	if raw, ferr := os.ReadFile(s.tokenPath()); ferr == nil {
		if t := strings.TrimSpace(string(raw)); t != "" {
			return t, nil
		}
	}
	return "", domain.ErrNotAuthenticated
}

// ClearToken removes the token from both backends. Keyring removal is
// best-effort: on headless machines the backend is absent and the file
// is the source of truth.
func (s *Store) ClearToken() error {
	_ = keyring.Delete(keyringService, keyringKey)
	ferr := os.Remove(s.tokenPath())
	if os.IsNotExist(ferr) {
		ferr = nil
	}
	return ferr
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, tokenFileName)
}
