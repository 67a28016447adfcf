package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"coursecatalog/api/internal/models"
)

// SessionState is what survives a restart: the token and who it belongs to.
type SessionState struct {
	Token   string              `json:"token"`
	Student *models.StudentView `json:"student,omitempty"`
}

type SessionStore interface {
	Load() (SessionState, error)
	Save(state SessionState) error
	Clear() error
}

// FileStore keeps the session as a JSON file readable only by its owner.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (SessionState, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SessionState{}, nil
		}
		return SessionState{}, fmt.Errorf("read session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return SessionState{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

func (f FileStore) Save(state SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Session holds the current token. It is safe for concurrent use. Expiry is
// not checked locally; the server rejects stale tokens.
type Session struct {
	mu    sync.RWMutex
	store SessionStore
	state SessionState
}

// NewSession restores any state saved in store. A nil store keeps the
// session in memory only.
func NewSession(store SessionStore) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	state, err := store.Load()
	if err != nil {
		return s, err
	}
	s.state = state
	return s, nil
}

func (s *Session) Login(token string, student models.StudentView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = SessionState{Token: token, Student: &student}
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.state)
}

func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = SessionState{}
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != ""
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) Student() (models.StudentView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Student == nil {
		return models.StudentView{}, false
	}
	return *s.state.Student, true
}

func (s *Session) AuthHeader() string {
	return "Bearer " + s.Token()
}
