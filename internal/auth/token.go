// Package auth persists the opaque session token handed back by /login.
// The token is the only client-side persistence in the app: a JSON file in
// the config dir, written with 0600 perms.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const tokenFileName = "token.json"

// StoredToken is the on-disk token record.
type StoredToken struct {
	Token   string    `json:"token"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// TokenStore reads and writes the token file.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore creates a store rooted at dir (the user config dir).
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{path: filepath.Join(dir, tokenFileName)}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Load returns the stored token, or (nil, nil) when none has been saved.
func (s *TokenStore) Load() (*StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var tok StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &tok, nil
}

// Save writes the token to disk, stamping SavedAt.
func (s *TokenStore) Save(tok StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the token file. Clearing an absent token is not an error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
