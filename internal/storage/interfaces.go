package storage

import (
	"context"

	"bubblemaps-bot/internal/domain"
)

// SessionStore provides access to per-chat conversation state.
type SessionStore interface {
	// Get retrieves the session for a chat. Returns ErrNotFound if not exists.
	Get(ctx context.Context, chatID int64) (*domain.Session, error)

	// Save creates or replaces the session for s.ChatID.
	// Returns ErrInvalidInput for a nil session or unsupported chain.
	Save(ctx context.Context, s *domain.Session) error

	// Delete removes the session for a chat. Deleting a missing session is not an error.
	Delete(ctx context.Context, chatID int64) error
}

// ValidateSession checks a session before it is written.
func ValidateSession(s *domain.Session) error {
	if s == nil {
		return ErrInvalidInput
	}
	if !s.CurrentChain.IsValid() {
		return ErrInvalidInput
	}
	return nil
}
