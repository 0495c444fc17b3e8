/*
state.go - The single persisted aggregate

PURPOSE:
  Everything the job remembers between invocations lives in one State
  snapshot: the update cursor, the active poll registry, the weekly
  scoreboard, and the week anchor. Persisting one record atomically is
  what keeps cursor, scores and registry mutually consistent; there is
  no partial-write window between separate stores.

WIRE FORMAT:
  JSON, self-describing, compatible with the layout the job has always
  written:

    {
      "current_week_start": "2024-03-11",
      "active_polls":  {"<poll_id>": {"message_id": 123, "date": "2024-03-10"}},
      "votes":         {"alice": 12},
      "vote_counts":   {"alice": 3},
      "processed_polls": ["<poll_id>"],
      "last_update_id": 42
    }

  processed_polls is a set in memory and a sorted array on the wire. The
  storage format is never trusted to preserve set semantics.

SEE ALSO:
  - store.go: The StateStore load/save contract
  - runner.go: Owns the aggregate for the duration of one run
*/
package engine

import (
	"encoding/json"
	"fmt"
	"sort"
)

// =============================================================================
// STATE - The reconciliation aggregate
// =============================================================================

// State is the full reconciliation state. It is loaded at run start,
// mutated in place through the run's steps, and saved exactly once at run
// end. No concurrent invocation is assumed.
type State struct {
	// WeekStart anchors the current accumulation period to its Monday.
	// Nil before the first week rollover.
	WeekStart *DayStamp

	// ActivePolls maps every poll this job created and still accepts
	// votes for to its creation record.
	ActivePolls map[PollID]PollRecord

	// Scores is the running per-respondent total for the current week.
	Scores map[RespondentID]int

	// VoteCounts tracks how many votes each respondent's total is built
	// from, for the summary's average column. Reset with Scores.
	VoteCounts map[RespondentID]int

	// ProcessedPolls holds every poll that has recorded at least one
	// vote. Expiry-safe companion to ActivePolls: expiring a poll clears
	// it from both.
	ProcessedPolls map[PollID]struct{}

	// Cursor is the highest sequence number consumed so far. Monotonically
	// non-decreasing across saves; survives the week reset.
	Cursor SequenceNum
}

// NewState returns the default empty aggregate.
func NewState() *State {
	return &State{
		ActivePolls:    make(map[PollID]PollRecord),
		Scores:         make(map[RespondentID]int),
		VoteCounts:     make(map[RespondentID]int),
		ProcessedPolls: make(map[PollID]struct{}),
	}
}

// ActivePollIDs returns the membership set used to filter incoming votes.
func (s *State) ActivePollIDs() map[PollID]struct{} {
	ids := make(map[PollID]struct{}, len(s.ActivePolls))
	for id := range s.ActivePolls {
		ids[id] = struct{}{}
	}
	return ids
}

// Clone returns a deep copy. Stores hand out clones so a caller's later
// mutations cannot alias the persisted snapshot.
func (s *State) Clone() *State {
	c := NewState()
	if s.WeekStart != nil {
		ws := *s.WeekStart
		c.WeekStart = &ws
	}
	for id, rec := range s.ActivePolls {
		c.ActivePolls[id] = rec
	}
	for r, score := range s.Scores {
		c.Scores[r] = score
	}
	for r, n := range s.VoteCounts {
		c.VoteCounts[r] = n
	}
	for id := range s.ProcessedPolls {
		c.ProcessedPolls[id] = struct{}{}
	}
	c.Cursor = s.Cursor
	return c
}

// =============================================================================
// WIRE ENCODING - Sets become sorted arrays, maps stay maps
// =============================================================================

type stateWire struct {
	WeekStart      *DayStamp             `json:"current_week_start"`
	ActivePolls    map[PollID]PollRecord `json:"active_polls"`
	Scores         map[RespondentID]int  `json:"votes"`
	VoteCounts     map[RespondentID]int  `json:"vote_counts,omitempty"`
	ProcessedPolls []PollID              `json:"processed_polls"`
	Cursor         SequenceNum           `json:"last_update_id"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	processed := make([]PollID, 0, len(s.ProcessedPolls))
	for id := range s.ProcessedPolls {
		processed = append(processed, id)
	}
	sort.Slice(processed, func(i, j int) bool { return processed[i] < processed[j] })

	return json.Marshal(stateWire{
		WeekStart:      s.WeekStart,
		ActivePolls:    s.ActivePolls,
		Scores:         s.Scores,
		VoteCounts:     s.VoteCounts,
		ProcessedPolls: processed,
		Cursor:         s.Cursor,
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode reconciliation state: %w", err)
	}

	*s = State{
		WeekStart:      w.WeekStart,
		ActivePolls:    w.ActivePolls,
		Scores:         w.Scores,
		VoteCounts:     w.VoteCounts,
		ProcessedPolls: make(map[PollID]struct{}, len(w.ProcessedPolls)),
		Cursor:         w.Cursor,
	}
	for _, id := range w.ProcessedPolls {
		s.ProcessedPolls[id] = struct{}{}
	}

	// Tolerate snapshots written before a field existed.
	if s.ActivePolls == nil {
		s.ActivePolls = make(map[PollID]PollRecord)
	}
	if s.Scores == nil {
		s.Scores = make(map[RespondentID]int)
	}
	if s.VoteCounts == nil {
		s.VoteCounts = make(map[RespondentID]int)
	}
	return nil
}
