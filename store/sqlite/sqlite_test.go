package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/poll-engine/engine"
)

func newTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AbsentSnapshot(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.True(t, errors.Is(err, engine.ErrStateNotFound))
}

func TestStore_SaveThenLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := engine.NewState()
	state.Cursor = 42
	state.Scores["alice"] = 5
	state.ProcessedPolls["p1"] = struct{}{}

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.SequenceNum(42), loaded.Cursor)
	assert.Equal(t, 5, loaded.Scores["alice"])
	assert.Contains(t, loaded.ProcessedPolls, engine.PollID("p1"))
}

func TestStore_SaveUpserts(t *testing.T) {
	// The aggregate is a single row; a second save replaces it rather
	// than accumulating history.
	store := newTestStore(t)
	ctx := context.Background()

	first := engine.NewState()
	first.Cursor = 1
	require.NoError(t, store.Save(ctx, first))

	second := engine.NewState()
	second.Cursor = 2
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.SequenceNum(2), loaded.Cursor)
}

func TestStore_CorruptPayload(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO reconciliation_state (id, payload, saved_at) VALUES (1, '{broken', '')`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, engine.ErrStateCorrupt))
}
