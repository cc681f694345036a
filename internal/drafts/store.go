package drafts

import (
	"errors"
	"sync"
	"time"

	"variantd/internal/variant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for an unknown or already-closed session id.
var ErrNotFound = errors.New("drafts: session not found")

// Session is one live editing session. The Editor exclusively owns the draft
// state; the session just gives it an id and the product fields that sit
// outside the variant engine.
type Session struct {
	ID        string
	Title     string
	Currency  string
	Editor    *variant.Editor
	CreatedAt time.Time
}

// Store keeps every open session in memory. Draft state is deliberately not
// persisted: a session lives and dies with the process, submission is the
// only way anything reaches the catalog.
type Store struct {
	mu       sync.RWMutex
	cfg      variant.Config
	sessions map[string]*Session
}

func NewStore(cfg variant.Config) *Store {
	return &Store{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session with a fresh editor over an empty draft.
func (s *Store) Open(title, currency string, basePrice decimal.Decimal) *Session {
	session := &Session{
		ID:        uuid.New().String(),
		Title:     title,
		Currency:  currency,
		Editor:    variant.NewEditor(basePrice, s.cfg),
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get looks up a live session.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Close tears a session down, cancelling any pending debounced work so
// nothing fires against a disposed editor.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	session.Editor.Close()
	return nil
}

// Len reports how many sessions are open.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
