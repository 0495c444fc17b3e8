/*
Package sqlite provides a SQLite-backed StateStore.

PURPOSE:
  Persists the reconciliation aggregate as a single snapshot row. The
  payload is the same JSON document the file store writes; SQLite adds
  transactional replacement and a durable home when the job shares a
  host with other tooling.

SCHEMA:
  reconciliation_state:
    id       Fixed to 1; there is exactly one aggregate
    payload  The JSON-encoded snapshot
    saved_at RFC3339 timestamp of the last save

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging) for better
  crash recovery. The job is single-writer by design, so contention is
  not a concern.

USAGE:
  store, err := sqlite.New("./poll_data.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: The StateStore contract
  - store/file: The JSON file alternative
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/poll-engine/engine"
)

// Store implements engine.StateStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reconciliation_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Load(ctx context.Context) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reconciliation_state WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	state := engine.NewState()
	if err := json.Unmarshal([]byte(payload), state); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrStateCorrupt, err)
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state *engine.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode reconciliation state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reconciliation_state (id, payload, saved_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at`,
		string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
