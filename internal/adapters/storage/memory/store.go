// Package memory is an in-process session store for tests and local runs.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (s *Store) Create(seedMessage string) *domain.Session {
	return domain.NewSession(seedMessage)
}

func (s *Store) Load(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return clone(sess), nil
}

func (s *Store) Save(session *domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *Store) List() ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		summaries = append(summaries, domain.SessionSummary{ID: sess.ID, Title: sess.Title})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID > summaries[j].ID
	})

	return summaries, nil
}

// clone keeps stored records isolated from caller mutation, matching the
// read-back semantics of the file store.
func clone(sess *domain.Session) *domain.Session {
	c := *sess
	c.Messages = make([]domain.Turn, len(sess.Messages))
	copy(c.Messages, sess.Messages)
	return &c
}
