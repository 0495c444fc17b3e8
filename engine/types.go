/*
Package engine provides the core poll reconciliation engine.

PURPOSE:
  This package contains the transport-agnostic types and algorithms for
  reconciling a daily poll cycle: consuming the platform's event stream
  through an offset cursor, attributing votes to respondents, expiring
  stale polls, and rolling accumulated scores into a weekly summary.

KEY CONCEPTS IN THIS FILE (types.go):
  - SequenceNum: The platform-assigned position of an event in its stream
  - Event/PollAnswer: One delivered update and its optional vote payload
  - Respondent: The voter identity, reduced to a stable scoring key
  - PollRecord: A poll this job created, tagged with its creation date

DESIGN PRINCIPLES:
  1. Purity: Aggregation is a fold; same inputs always yield same outputs
  2. One aggregate: All persisted state lives in a single State snapshot
  3. Type safety: Strong typing for poll and respondent identifiers
  4. Effectively-once: The cursor converts redelivery into no-ops

SEE ALSO:
  - state.go: The persisted State aggregate and its wire encoding
  - aggregator.go: Vote attribution and in-batch deduplication
  - week.go: The two-phase week cycle
  - runner.go: The per-invocation orchestration sequence
*/
package engine

import "fmt"

// =============================================================================
// IDENTIFIERS
// =============================================================================

// SequenceNum is the monotonically assigned position of an externally
// delivered event in the platform's stream.
type SequenceNum int64

// PollID uniquely identifies a poll. Opaque; assigned by the platform.
type PollID string

// RespondentID is the stable key a vote is attributed to. Derived from the
// respondent's handle, never from the raw event.
type RespondentID string

// =============================================================================
// EVENTS - What the gateway delivers
// =============================================================================

// Event is one externally delivered update. Most updates carry no poll
// answer; their sequence numbers still advance the cursor.
type Event struct {
	Sequence SequenceNum
	Answer   *PollAnswer
}

// PollAnswer is the vote payload of an event. An empty SelectedOptions
// slice represents a retraction and is not counted as a vote.
type PollAnswer struct {
	PollID          PollID
	Respondent      Respondent
	SelectedOptions []int
}

// Respondent identifies the voter as the platform reports them.
type Respondent struct {
	ID        int64
	Username  string
	FirstName string
}

// Key reduces the respondent to a stable scoring identity: the username
// when present, else the first name, else a deterministic synthetic handle
// from the numeric id. The same person always aggregates to the same key.
func (r Respondent) Key() RespondentID {
	if r.Username != "" {
		return RespondentID(r.Username)
	}
	if r.FirstName != "" {
		return RespondentID(r.FirstName)
	}
	return RespondentID(fmt.Sprintf("User_%d", r.ID))
}

// =============================================================================
// POLL RECORD - A poll this job created
// =============================================================================

// PollRecord tracks one poll created by this job. CreatedOn is kept as the
// raw stamp so an unparsable value can round-trip and be expired on the
// next cleanup rather than crash the run.
type PollRecord struct {
	DeliveryRef int64  `json:"message_id"`
	CreatedOn   string `json:"date"`
}
