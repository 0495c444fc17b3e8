/*
Package file provides a JSON-file-backed StateStore.

PURPOSE:
  Persists the reconciliation aggregate as one JSON document on disk,
  the same self-describing layout the snapshot has always used
  (poll_data.json). Good for the cron deployment the job was built for:
  a single process, a single file, no daemon to keep alive.

ATOMICITY:
  Save writes to a temporary file in the same directory and renames it
  over the target. A crash mid-save leaves the previous snapshot intact;
  there is no partially written state.

CORRUPTION:
  An unreadable or undecodable file surfaces as ErrStateCorrupt. The
  runner recovers by reinitializing; the broken file is overwritten on
  the next successful save.

SEE ALSO:
  - engine/store.go: The StateStore contract
  - store/sqlite: The SQLite-backed alternative
*/
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/poll-engine/engine"
)

// DefaultPath is where the snapshot lives unless configured otherwise.
const DefaultPath = "poll_data.json"

// Store implements engine.StateStore on a single JSON file.
type Store struct {
	path string
}

// New creates a store writing to the given path. An empty path uses
// DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) (*engine.State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, engine.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", engine.ErrStateCorrupt, s.path, err)
	}

	state := engine.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrStateCorrupt, err)
	}
	return state, nil
}

func (s *Store) Save(_ context.Context, state *engine.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reconciliation state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".poll_data-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
