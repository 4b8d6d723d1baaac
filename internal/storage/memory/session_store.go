package memory

import (
	"context"
	"sync"
	"time"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/storage"
)

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
	now      func() time.Time
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
		now:      time.Now,
	}
}

// Get retrieves the session for a chat.
func (s *SessionStore) Get(_ context.Context, chatID int64) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *sess
	return &cp, nil
}

// Save creates or replaces a session.
func (s *SessionStore) Save(_ context.Context, sess *domain.Session) error {
	if err := storage.ValidateSession(sess); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	cp.UpdatedAt = s.now().UnixMilli()
	s.sessions[sess.ChatID] = &cp
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
