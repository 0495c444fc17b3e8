/*
runner.go - Per-invocation orchestration

PURPOSE:
  Sequences one reconciliation run against one fetch of pending events
  and one outbound poll creation. The order is fixed; no step's success
  gates an unrelated step:

    1. Load state (default-initialize when absent or corrupt)
    2. Fetch events after the stored cursor
    3. Aggregate votes, advance the cursor past the whole batch
    4. Evaluate the week cycle (summary + reset on the boundary day)
    5. Create and register today's poll (failure logged, non-fatal)
    6. Expire stale polls
    7. Save unconditionally

  Persistence is unconditional because losing it is worse than any
  single step failing: a lost cursor advance double-processes events,
  a lost expiry grows the registry without bound.

ERROR POLICY:
  Gateway failures are caught inside the step that made the call and at
  most cost that step's effect. A run aborts only when the snapshot
  itself is at risk: a transient load failure (the snapshot may still
  exist; overwriting it would rewind the cursor) or a failed final
  save. Missing configuration aborts before the runner is constructed.

SEE ALSO:
  - gateway.go, store.go: The two external collaborators
  - week.go: What the Sunday reset clears and what it carries
*/
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/poll-engine/logger"
)

// =============================================================================
// RUNNER
// =============================================================================

const (
	defaultFetchLimit = 100
	defaultFetchWait  = 10 // seconds of long-poll on the fetch
)

// pollOptions are the six single-choice options presented every day.
// Option index i maps to score value i+1.
var pollOptions = []string{"1", "2", "3", "4", "5", "6"}

// Runner owns the aggregate for the duration of one invocation and
// sequences the engine's components against the external collaborators.
type Runner struct {
	Gateway Gateway
	Store   StateStore
	Log     *logger.Logger

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time

	Week       WeekCycle
	FetchLimit int
	FetchWait  int
}

// NewRunner wires a runner with the standard Sunday week cycle and fetch
// tuning defaults.
func NewRunner(gw Gateway, store StateStore, log *logger.Logger) *Runner {
	return &Runner{
		Gateway:    gw,
		Store:      store,
		Log:        log,
		Now:        time.Now,
		Week:       NewWeekCycle(),
		FetchLimit: defaultFetchLimit,
		FetchWait:  defaultFetchWait,
	}
}

// RunReport summarizes what one invocation did.
type RunReport struct {
	RunID         string      `json:"run_id"`
	Day           string      `json:"day"`
	Phase         Phase       `json:"phase"`
	EventsFetched int         `json:"events_fetched"`
	VotesRecorded int         `json:"votes_recorded"`
	Cursor        SequenceNum `json:"cursor"`
	SummarySent   bool        `json:"summary_sent"`
	WeekReset     bool        `json:"week_reset"`
	PollCreated   bool        `json:"poll_created"`
	PollID        PollID      `json:"poll_id,omitempty"`
	PollsExpired  int         `json:"polls_expired"`
}

// Run executes one full reconciliation pass.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	now := r.Now()
	today := DayOf(now)

	report := &RunReport{RunID: uuid.NewString(), Day: today.String()}
	log := r.Log.WithRunID(report.RunID)
	log.Info("reconciliation run starting", "day", report.Day)

	// Step 1: load. Only an absent or undecodable snapshot is recovered
	// by starting fresh; any other load failure (a locked database, an
	// unreadable disk) aborts before anything is mutated. Saving a
	// default aggregate over a snapshot that still exists would rewind
	// the cursor and double-process every redelivered event.
	state, err := r.Store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrStateNotFound):
		state = NewState()
		log.Info("no existing state, starting fresh")
	case errors.Is(err, ErrStateCorrupt):
		state = NewState()
		log.Warn("stored state unreadable, starting fresh", "error", err)
	default:
		log.Error("failed to load state", "error", err)
		return report, fmt.Errorf("load reconciliation state: %w", err)
	}
	registry := NewPollRegistry(state)

	// Step 2: fetch events strictly after the stored cursor. A failed
	// fetch leaves the cursor untouched; the next run reattempts.
	cursor := NewUpdateCursor(state.Cursor)
	events, err := r.Gateway.FetchEvents(ctx, cursor.Value(), r.FetchLimit, r.FetchWait)
	if err != nil {
		log.Error("failed to fetch events", "error", err, "after", cursor.Value())
		events = nil
	}
	report.EventsFetched = len(events)

	// Step 3: aggregate the batch and advance the cursor past all of it,
	// including events that were not votes.
	if len(events) > 0 {
		result := AggregateVotes(events, state.ActivePollIDs(), state.Scores, state.VoteCounts)
		state.Scores = result.Scores
		state.VoteCounts = result.VoteCounts
		for id := range result.VotesPerPoll {
			state.ProcessedPolls[id] = struct{}{}
		}
		state.Cursor = cursor.Advance(result.HighestSeq)
		report.VotesRecorded = result.VotesRecorded
		log.Info("processed events",
			"events", len(events),
			"votes_recorded", result.VotesRecorded,
			"cursor", state.Cursor)
	} else {
		log.Info("no new events to process")
	}

	// Step 4: week cycle. The summary covers the week that just finished,
	// so this runs after aggregation and before today's poll exists.
	report.Phase = r.Week.Evaluate(today)
	if report.Phase == PhaseResetting {
		if len(state.Scores) > 0 {
			summary := FormatSummary(Standings(state.Scores, state.VoteCounts))
			if err := r.Gateway.SendText(ctx, summary); err != nil {
				log.Error("failed to send weekly summary", "error", err)
			} else {
				report.SummarySent = true
				log.Info("sent weekly summary", "respondents", len(state.Scores))
			}
		}
		r.Week.Reset(state, today)
		report.WeekReset = true
		log.Info("week reset", "week_start", state.WeekStart.String(), "cursor", state.Cursor)
	}

	// Step 5: today's poll. Failure costs only the poll; expiry and the
	// save still run.
	question := now.Format("Monday, January 02, 2006")
	pollID, deliveryRef, err := r.Gateway.CreatePoll(ctx, question, pollOptions, false, false)
	if err != nil {
		log.Error("failed to post daily poll", "error", err)
	} else {
		rec := PollRecord{DeliveryRef: deliveryRef, CreatedOn: today.String()}
		if err := registry.Register(pollID, rec); err != nil {
			log.Warn("poll registration rejected", "poll_id", pollID, "error", err)
		} else {
			report.PollCreated = true
			report.PollID = pollID
			log.Info("posted daily poll", "poll_id", pollID, "question", question)
		}
	}

	// Step 6: expiry.
	removed := registry.Expire(today)
	report.PollsExpired = len(removed)
	for _, id := range removed {
		log.Info("removed old poll", "poll_id", id)
	}

	// Step 7: unconditional save.
	report.Cursor = state.Cursor
	if err := r.Store.Save(ctx, state); err != nil {
		log.Error("failed to save state", "error", err)
		return report, fmt.Errorf("save reconciliation state: %w", err)
	}

	log.Info("reconciliation run completed",
		"cursor", state.Cursor,
		"active_polls", len(state.ActivePolls),
		"respondents", len(state.Scores))
	return report, nil
}
