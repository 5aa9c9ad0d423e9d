// Package session persists the last auth session between CLI runs, the way
// the web client kept its token in localStorage. No auth protocol lives
// here; tokens are opaque strings issued by the external provider.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Session is the persisted record of a signed-in user.
type Session struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store reads and writes the session file. The zero value is unusable; use
// NewStore.
type Store struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	current  Session
	loaded   bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored access token, empty when signed out. Implements
// the API client's token source.
func (s *Store) Token() string {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.AccessToken
}

// Current returns the stored session, if any.
func (s *Store) Current() (Session, bool) {
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded || strings.TrimSpace(s.current.AccessToken) == "" {
		return Session{}, false
	}
	return s.current, true
}

// Save stores the session and persists it to disk.
func (s *Store) Save(sess Session) error {
	s.ensureLoaded()
	sess.SavedAt = time.Now().UTC()
	s.mu.Lock()
	s.current = sess
	s.loaded = true
	s.mu.Unlock()
	return s.persist()
}

// Clear removes the session file, signing the CLI out locally.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = Session{}
	s.loaded = false
	s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) ensureLoaded() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var sess Session
		if err := json.Unmarshal(b, &sess); err != nil {
			return
		}
		s.mu.Lock()
		s.current = sess
		s.loaded = true
		s.mu.Unlock()
	})
}

func (s *Store) persist() error {
	s.mu.RLock()
	sess := s.current
	s.mu.RUnlock()

	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}
