package storage_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
	"bubblemaps-bot/internal/storage"
	"bubblemaps-bot/internal/storage/memory"
)

func TestLoadOrNew_Missing(t *testing.T) {
	sess, err := storage.LoadOrNew(context.Background(), memory.NewSessionStore(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.ChatID)
	assert.Equal(t, domain.DefaultChain, sess.CurrentChain)
	assert.False(t, sess.AwaitingAddress)
}

func TestLoadOrNew_Existing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	require.NoError(t, store.Save(ctx, &domain.Session{ChatID: 7, CurrentChain: domain.ChainPolygon, AwaitingAddress: true}))

	sess, err := storage.LoadOrNew(ctx, store, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.ChainPolygon, sess.CurrentChain)
	assert.True(t, sess.AwaitingAddress)
}

func TestInstrumented_PassesThroughAndCounts(t *testing.T) {
	ctx := context.Background()
	backend := "instrumented-test"
	store := storage.NewInstrumented(memory.NewSessionStore(), backend)
	opErrors := observability.DefaultMetrics.SessionOpErrors

	_, err := store.Get(ctx, 1)
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0.0, testutil.ToFloat64(opErrors.WithLabelValues(backend, "get")))

	err = store.Save(ctx, &domain.Session{ChatID: 1, CurrentChain: "doge"})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(opErrors.WithLabelValues(backend, "save")))

	require.NoError(t, store.Save(ctx, domain.NewSession(1)))
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChain, got.CurrentChain)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0.0, testutil.ToFloat64(opErrors.WithLabelValues(backend, "delete")))
}

func TestValidateSession(t *testing.T) {
	assert.ErrorIs(t, storage.ValidateSession(nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, storage.ValidateSession(&domain.Session{CurrentChain: "doge"}), storage.ErrInvalidInput)
	assert.NoError(t, storage.ValidateSession(domain.NewSession(1)))
}
