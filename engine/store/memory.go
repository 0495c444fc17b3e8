// Package store provides StateStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/poll-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds the snapshot in process memory. Load and Save exchange
// deep copies so callers can never alias the stored aggregate.
type Memory struct {
	mu    sync.RWMutex
	state *engine.State
	saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (*engine.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == nil {
		return nil, engine.ErrStateNotFound
	}
	return m.state.Clone(), nil
}

func (m *Memory) Save(_ context.Context, state *engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state.Clone()
	m.saves++
	return nil
}

// Saves returns how many snapshots have been written. For tests.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Seed installs a starting snapshot without counting as a save. For tests.
func (m *Memory) Seed(state *engine.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
}
