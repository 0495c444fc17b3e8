/*
week.go - The two-phase week cycle

PURPOSE:
  Decides, once per run, whether the week boundary has been crossed and
  applies the reset. The phase is derived from the run's calendar day,
  never from a stored flag: rerunning a Sunday job reaches the same
  decision from the same inputs.

PHASES:
  PhaseAccumulating  every ordinary day; scores keep growing
  PhaseResetting     the designated week-end day; summarize and clear

RESET SEMANTICS (which fields clear, which persist):
  cleared:  Scores, VoteCounts, ActivePolls, ProcessedPolls
  set:      WeekStart -> the Monday opening the new period
  carried:  Cursor (event-stream continuity must survive the reset)

  The summary is emitted only when Scores is non-empty; an empty week
  resets silently. Active polls are discarded either way: a new week
  starts with no carried-over polls, so a Sunday poll is always created
  fresh under the new week's empty state.
*/
package engine

import "time"

// =============================================================================
// PHASE - Explicit week-cycle state
// =============================================================================

type Phase string

const (
	PhaseAccumulating Phase = "accumulating"
	PhaseResetting    Phase = "resetting"
)

// =============================================================================
// WEEK CYCLE - Boundary evaluation and reset
// =============================================================================

// WeekCycle evaluates the week boundary. WeekEnd designates the day that
// closes an accumulation period.
type WeekCycle struct {
	WeekEnd time.Weekday
}

// NewWeekCycle returns the standard Sunday-ending cycle.
func NewWeekCycle() WeekCycle {
	return WeekCycle{WeekEnd: time.Sunday}
}

// Evaluate returns the phase for the given run day.
func (wc WeekCycle) Evaluate(today DayStamp) Phase {
	if today.Weekday() == wc.WeekEnd {
		return PhaseResetting
	}
	return PhaseAccumulating
}

// Reset clears the accumulation fields of the aggregate and anchors the
// new period, carrying the cursor forward unchanged.
func (wc WeekCycle) Reset(state *State, today DayStamp) {
	weekStart := today.NextMonday()
	state.WeekStart = &weekStart
	state.ActivePolls = make(map[PollID]PollRecord)
	state.Scores = make(map[RespondentID]int)
	state.VoteCounts = make(map[RespondentID]int)
	state.ProcessedPolls = make(map[PollID]struct{})
	// state.Cursor is deliberately untouched.
}
