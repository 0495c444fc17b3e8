package engine

// =============================================================================
// POLL REGISTRY - Which polls may still receive votes
// =============================================================================

// retentionDays bounds how long a poll stays eligible for votes. A poll
// created exactly retentionDays before today is retained; one day older
// is removed.
const retentionDays = 7

// PollRegistry is a view over the State's poll bookkeeping. It bounds the
// growth of polls that will never see another vote, and keeps votes for
// foreign polls (or polls predating this job's state) from being
// misattributed.
type PollRegistry struct {
	state *State
}

// NewPollRegistry wraps the given aggregate. The registry mutates the
// aggregate in place; it holds no state of its own.
func NewPollRegistry(state *State) *PollRegistry {
	return &PollRegistry{state: state}
}

// Register adds a poll as active. Returns ErrDuplicatePoll if the id is
// already registered; the caller logs and continues, since platform poll
// ids are expected to be unique.
func (r *PollRegistry) Register(id PollID, rec PollRecord) error {
	if _, exists := r.state.ActivePolls[id]; exists {
		return ErrDuplicatePoll
	}
	r.state.ActivePolls[id] = rec
	return nil
}

// IsActive reports whether votes for the poll should be attributed.
func (r *PollRegistry) IsActive(id PollID) bool {
	_, ok := r.state.ActivePolls[id]
	return ok
}

// Expire removes every poll created strictly more than retentionDays
// before today, and clears the same ids from the processed set. A record
// whose creation date cannot be parsed is expired immediately: dropping
// it bounds the registry, retaining it would not. Returns the removed ids
// for logging.
func (r *PollRegistry) Expire(today DayStamp) []PollID {
	var removed []PollID
	for id, rec := range r.state.ActivePolls {
		created, err := ParseDayStamp(rec.CreatedOn)
		if err != nil || DaysBetween(created, today) > retentionDays {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		delete(r.state.ActivePolls, id)
		delete(r.state.ProcessedPolls, id)
	}
	return removed
}
