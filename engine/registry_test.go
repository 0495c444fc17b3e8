package engine

import (
	"errors"
	"testing"
	"time"
)

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestPollRegistry_RegisterAndMembership(t *testing.T) {
	state := NewState()
	reg := NewPollRegistry(state)

	err := reg.Register("poll-1", PollRecord{DeliveryRef: 10, CreatedOn: "2024-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reg.IsActive("poll-1") {
		t.Error("registered poll should be active")
	}
	if reg.IsActive("poll-2") {
		t.Error("unknown poll should not be active")
	}
}

func TestPollRegistry_DuplicateRejected(t *testing.T) {
	// GIVEN: poll-1 is already registered
	// WHEN: Registering the same id again
	// THEN: ErrDuplicatePoll, and the original record is untouched

	state := NewState()
	reg := NewPollRegistry(state)

	if err := reg.Register("poll-1", PollRecord{DeliveryRef: 10, CreatedOn: "2024-03-15"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := reg.Register("poll-1", PollRecord{DeliveryRef: 99, CreatedOn: "2024-03-16"})
	if !errors.Is(err, ErrDuplicatePoll) {
		t.Fatalf("expected ErrDuplicatePoll, got %v", err)
	}
	if state.ActivePolls["poll-1"].DeliveryRef != 10 {
		t.Error("duplicate registration overwrote the original record")
	}
}

func TestPollRegistry_ExpiryBoundary(t *testing.T) {
	// GIVEN: today = 2024-03-15; polls dated exactly 7 and 8 days before
	// WHEN: Expiring
	// THEN: The 7-day-old poll is retained, the 8-day-old poll is removed

	state := NewState()
	state.ActivePolls["week-old"] = PollRecord{CreatedOn: "2024-03-08"}
	state.ActivePolls["too-old"] = PollRecord{CreatedOn: "2024-03-07"}
	state.ProcessedPolls["too-old"] = struct{}{}
	state.ProcessedPolls["week-old"] = struct{}{}

	reg := NewPollRegistry(state)
	removed := reg.Expire(NewDayStamp(2024, time.March, 15))

	if len(removed) != 1 || removed[0] != "too-old" {
		t.Fatalf("expected [too-old] removed, got %v", removed)
	}
	if !reg.IsActive("week-old") {
		t.Error("poll created exactly 7 days ago must be retained")
	}
	if reg.IsActive("too-old") {
		t.Error("poll created 8 days ago must be removed")
	}
	if _, ok := state.ProcessedPolls["too-old"]; ok {
		t.Error("expired poll must also leave the processed set")
	}
	if _, ok := state.ProcessedPolls["week-old"]; !ok {
		t.Error("retained poll must stay in the processed set")
	}
}

func TestPollRegistry_MalformedDateExpiresImmediately(t *testing.T) {
	state := NewState()
	state.ActivePolls["bad-date"] = PollRecord{CreatedOn: "not-a-date"}

	reg := NewPollRegistry(state)
	removed := reg.Expire(NewDayStamp(2024, time.March, 15))

	if len(removed) != 1 || removed[0] != "bad-date" {
		t.Fatalf("expected [bad-date] removed, got %v", removed)
	}
}

func TestPollRegistry_FutureDatedPollRetained(t *testing.T) {
	// Clock skew can date a poll slightly ahead of today. Negative age is
	// not "> 7 days old" and must not expire.
	state := NewState()
	state.ActivePolls["tomorrow"] = PollRecord{CreatedOn: "2024-03-16"}

	reg := NewPollRegistry(state)
	removed := reg.Expire(NewDayStamp(2024, time.March, 15))

	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
}
