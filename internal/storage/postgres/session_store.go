package postgres

import (
	"context"
	"fmt"
	"time"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/storage"
)

// SessionStore is a PostgreSQL implementation of storage.SessionStore
// backed by the chat_sessions table.
type SessionStore struct {
	pool *Pool
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new PostgreSQL session store.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Get retrieves the session for a chat.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT chat_id, current_chain, awaiting_address, updated_at
		FROM chat_sessions
		WHERE chat_id = $1
	`, chatID)

	var (
		sess      domain.Session
		chain     string
		updatedAt time.Time
	)
	err := row.Scan(&sess.ChatID, &chain, &sess.AwaitingAddress, &updatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess.CurrentChain = domain.Chain(chain)
	if !sess.CurrentChain.IsValid() {
		// Chain list shrank since the row was written.
		sess.CurrentChain = domain.DefaultChain
	}
	sess.UpdatedAt = updatedAt.UnixMilli()
	return &sess, nil
}

// Save creates or replaces a session.
// Uses upsert to handle initial insert and subsequent updates.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if err := storage.ValidateSession(sess); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_sessions (chat_id, current_chain, awaiting_address, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (chat_id) DO UPDATE
		SET current_chain = EXCLUDED.current_chain,
		    awaiting_address = EXCLUDED.awaiting_address,
		    updated_at = NOW()
	`, sess.ChatID, sess.CurrentChain.String(), sess.AwaitingAddress)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
