package storage

import (
	"context"
	"errors"
	"time"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
)

// LoadOrNew returns the stored session for chatID, or a fresh one when
// none exists yet.
func LoadOrNew(ctx context.Context, store SessionStore, chatID int64) (*domain.Session, error) {
	s, err := store.Get(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return domain.NewSession(chatID), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Instrumented wraps a SessionStore with operation metrics.
type Instrumented struct {
	next    SessionStore
	backend string
}

var _ SessionStore = (*Instrumented)(nil)

// NewInstrumented wraps next, labelling metrics with backend.
func NewInstrumented(next SessionStore, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

// Get implements SessionStore.
func (s *Instrumented) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	start := time.Now()
	sess, err := s.next.Get(ctx, chatID)
	// A missing session is the normal first-contact path.
	recErr := err
	if errors.Is(err, ErrNotFound) {
		recErr = nil
	}
	observability.RecordSessionOp(s.backend, "get", time.Since(start), recErr)
	return sess, err
}

// Save implements SessionStore.
func (s *Instrumented) Save(ctx context.Context, sess *domain.Session) error {
	start := time.Now()
	err := s.next.Save(ctx, sess)
	observability.RecordSessionOp(s.backend, "save", time.Since(start), err)
	return err
}

// Delete implements SessionStore.
func (s *Instrumented) Delete(ctx context.Context, chatID int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, chatID)
	observability.RecordSessionOp(s.backend, "delete", time.Since(start), err)
	return err
}
