package store

import (
	"errors"
	"sync"

	"github.com/cameroncuttingedge/fruit_bingo/game"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps the live sessions in memory, keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]*game.Session)}
}

func (s *Store) Save(session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *Store) Get(sessionID string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
