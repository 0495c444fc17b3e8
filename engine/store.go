/*
store.go - Persistence contract for the reconciliation aggregate

PURPOSE:
  Defines the interface between the engine and whatever medium holds the
  snapshot between invocations. The aggregate is saved as one atomic
  record; there is never a partial write spanning cursor, scores and
  registry.

CONTRACT:
  Load returns ErrStateNotFound before the first save, and an error
  wrapping ErrStateCorrupt when the stored payload cannot be decoded.
  Both are recovered by the runner with a default aggregate; neither is
  fatal. Save replaces the previous snapshot wholesale.

IMPLEMENTATIONS:
  - engine/store: In-memory, for tests and development
  - store/file:   JSON file snapshot (write-temp-then-rename)
  - store/sqlite: Single-row SQLite snapshot

SEE ALSO:
  - state.go: The aggregate and its wire encoding
*/
package engine

import "context"

// StateStore persists the reconciliation aggregate as an atomic snapshot.
type StateStore interface {
	// Load returns the last saved aggregate, ErrStateNotFound when no
	// snapshot exists, or an ErrStateCorrupt-wrapping error when the
	// payload cannot be decoded.
	Load(ctx context.Context) (*State, error)

	// Save atomically replaces the snapshot.
	Save(ctx context.Context, state *State) error
}
