// Package auth holds the signed-in session that supplies the current user identity.
//
// The identity provider is the document store server: signup issues an opaque
// bearer token, which the CLI keeps in a session file until logout.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/tickr/internal/store"
	"github.com/spf13/afero"
)

// Session is the signed-in user. The zero value is signed out.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token,omitempty"`
}

var _ store.Identity = (*Session)(nil)

// CurrentUser implements [store.Identity]. A nil or empty session has no user.
func (s *Session) CurrentUser() (string, bool) {
	if s == nil || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// SessionStore persists a [Session] as a JSON file readable only by the owner.
type SessionStore struct {
	fs   afero.Fs
	path string
}

// NewSessionStore creates a [SessionStore] at path on fs. A nil fs uses the OS filesystem.
func NewSessionStore(fs afero.Fs, path string) *SessionStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SessionStore{fs: fs, path: path}
}

// Load returns the saved session, or an empty session when none is saved.
func (s *SessionStore) Load() (*Session, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Save writes the session, replacing any previous one.
func (s *SessionStore) Save(session *Session) error {
	if session == nil || session.UserID == "" || session.Token == "" {
		return fmt.Errorf("session requires a user id and token")
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing when signed out is not an error.
func (s *SessionStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
