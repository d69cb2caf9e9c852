package postflow

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"resultpost/internal/workflow"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Session is one operator's pass through the posting workflow. Sessions are
// in-memory only; an expired session simply starts the flow over.
type Session struct {
	ID      string
	Machine *workflow.Machine
}

type SessionStore struct {
	cache *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *SessionStore) Create(machine *workflow.Machine) *Session {
	session := &Session{
		ID:      uuid.New().String(),
		Machine: machine,
	}

	s.cache.Set(session.ID, session, cache.DefaultExpiration)

	return session
}

func (s *SessionStore) Get(id string) (*Session, error) {
	stored, found := s.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}

	return stored.(*Session), nil
}
