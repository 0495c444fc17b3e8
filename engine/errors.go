/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All engine error types in one place. Collaborating packages (stores,
  gateway, config) wrap these sentinels so the runner can classify a
  failure without knowing which implementation produced it.

ERROR CATEGORIES:
  1. Configuration errors - Fatal, abort before any network call
  2. Gateway errors - One outbound call failed; that step is skipped
  3. State errors - Missing or unreadable snapshot; recovered locally

USAGE:
  if errors.Is(err, engine.ErrStateCorrupt) {
      state = engine.NewState() // reinitialize, never fatal
  }

SEE ALSO:
  - runner.go: Applies the propagation policy per step
  - store/file, store/sqlite: Wrap ErrStateNotFound / ErrStateCorrupt
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingConfig is returned when a required credential or destination
	// is absent. The only fatal error class: the run aborts before any
	// state is touched.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrStateNotFound is returned by a StateStore when no snapshot has
	// been persisted yet. The runner default-initializes.
	ErrStateNotFound = errors.New("reconciliation state not found")

	// ErrStateCorrupt is returned when a persisted snapshot cannot be
	// decoded. Recovered by reinitializing; never fatal.
	ErrStateCorrupt = errors.New("reconciliation state corrupt")

	// ErrDuplicatePoll is returned when registering a poll id that is
	// already active. An anomaly (platform ids are unique); logged, the
	// run continues.
	ErrDuplicatePoll = errors.New("poll already registered")
)

// =============================================================================
// GATEWAY ERROR - One outbound call failed
// =============================================================================

// GatewayError wraps a failed messaging-platform call. Every step catches
// its own GatewayError locally; losing one step never aborts the run.
type GatewayError struct {
	Op  string // the platform method, e.g. "sendPoll"
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsFatal reports whether the error must abort the whole run.
// Only configuration errors qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingConfig)
}

// IsGateway reports whether the error came from an outbound platform call.
func IsGateway(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
