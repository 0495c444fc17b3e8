/*
handlers.go - HTTP handlers for the status server

PURPOSE:
  Exposes the persisted reconciliation state over REST. Handlers load
  the snapshot read-only; the only mutating endpoint delegates to the
  engine's runner, which owns the load-mutate-save cycle itself.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 500: Store or run failures
  An absent snapshot is not an error: the job simply has not run yet,
  so handlers answer with the default empty aggregate.

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warp/poll-engine/engine"
	"github.com/warp/poll-engine/logger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  engine.StateStore
	Runner *engine.Runner
	Log    *logger.Logger
}

// NewHandler creates a new handler.
func NewHandler(store engine.StateStore, runner *engine.Runner, log *logger.Logger) *Handler {
	return &Handler{Store: store, Runner: runner, Log: log}
}

// loadState returns the current snapshot, defaulting to the empty
// aggregate before the first run.
func (h *Handler) loadState(r *http.Request) (*engine.State, error) {
	state, err := h.Store.Load(r.Context())
	if errors.Is(err, engine.ErrStateNotFound) {
		return engine.NewState(), nil
	}
	return state, err
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Healthz answers liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStandings returns the current weekly scoreboard in summary order.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	state, err := h.loadState(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	standings := engine.Standings(state.Scores, state.VoteCounts)
	writeJSON(w, http.StatusOK, StandingsDTO{
		WeekStart: dayPtr(state.WeekStart),
		Standings: standings,
	})
}

// GetState returns the reconciliation bookkeeping: cursor, week anchor
// and registry sizes.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.loadState(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	writeJSON(w, http.StatusOK, StateDTO{
		Cursor:         int64(state.Cursor),
		WeekStart:      dayPtr(state.WeekStart),
		ActivePolls:    len(state.ActivePolls),
		ProcessedPolls: len(state.ProcessedPolls),
		Respondents:    len(state.Scores),
	})
}

// TriggerRun executes one reconciliation run and returns its report.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.Runner.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// HELPERS
// =============================================================================

func dayPtr(d *engine.DayStamp) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
