package inmemory

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
)

var _ sessions.Store = (*Store)(nil)

// Store is an in-memory implementation of sessions.Store
type Store struct {
	mu      sync.RWMutex
	session sessions.Session
}

// New creates an empty in-memory session store
func New() *Store {
	return &Store{}
}

// NewWithSession creates a store seeded with the given session
func NewWithSession(session sessions.Session) *Store {
	s := &Store{}
	s.session = copySession(session)
	return s
}

func (s *Store) Load(_ context.Context) (sessions.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session), nil
}

func (s *Store) Save(_ context.Context, session sessions.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = copySession(session)
	return nil
}

func (s *Store) SetAccessToken(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.HasRefreshToken() {
		return errors.ErrSessionNotFound
	}
	s.session.AccessToken = accessToken
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sessions.Session{}
	return nil
}

// Copy the user so callers can't modify stored state
func copySession(in sessions.Session) sessions.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	return out
}
