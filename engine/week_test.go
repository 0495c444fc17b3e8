package engine

import (
	"testing"
	"time"
)

// =============================================================================
// WEEK CYCLE TESTS
// =============================================================================

func TestWeekCycle_PhaseByWeekday(t *testing.T) {
	wc := NewWeekCycle()

	sunday := NewDayStamp(2024, time.March, 17)
	monday := NewDayStamp(2024, time.March, 18)

	if got := wc.Evaluate(sunday); got != PhaseResetting {
		t.Errorf("Sunday: got %s, want %s", got, PhaseResetting)
	}
	if got := wc.Evaluate(monday); got != PhaseAccumulating {
		t.Errorf("Monday: got %s, want %s", got, PhaseAccumulating)
	}
}

func TestWeekCycle_ResetClearsAccumulationAndKeepsCursor(t *testing.T) {
	// GIVEN: A mid-week aggregate with cursor 42 and accumulated scores
	// WHEN: Resetting on Sunday 2024-03-17
	// THEN: Scores, polls and processed set are empty; week_start is the
	//       new period's Monday; the cursor is carried unchanged

	state := NewState()
	state.Cursor = 42
	state.Scores["alice"] = 5
	state.VoteCounts["alice"] = 1
	state.ActivePolls["p1"] = PollRecord{CreatedOn: "2024-03-15"}
	state.ProcessedPolls["p1"] = struct{}{}

	wc := NewWeekCycle()
	wc.Reset(state, NewDayStamp(2024, time.March, 17))

	if len(state.Scores) != 0 {
		t.Errorf("scores not cleared: %v", state.Scores)
	}
	if len(state.VoteCounts) != 0 {
		t.Errorf("vote counts not cleared: %v", state.VoteCounts)
	}
	if len(state.ActivePolls) != 0 {
		t.Errorf("active polls not cleared: %v", state.ActivePolls)
	}
	if len(state.ProcessedPolls) != 0 {
		t.Errorf("processed polls not cleared: %v", state.ProcessedPolls)
	}
	if state.Cursor != 42 {
		t.Errorf("cursor changed across reset: got %d, want 42", state.Cursor)
	}
	if state.WeekStart == nil || state.WeekStart.String() != "2024-03-18" {
		t.Errorf("week start: got %v, want 2024-03-18", state.WeekStart)
	}
}

// =============================================================================
// DAY STAMP TESTS
// =============================================================================

func TestDayStamp_NextMonday(t *testing.T) {
	cases := []struct {
		day  DayStamp
		want string
	}{
		{NewDayStamp(2024, time.March, 17), "2024-03-18"}, // Sunday -> next day
		{NewDayStamp(2024, time.March, 18), "2024-03-25"}, // Monday -> a week out
		{NewDayStamp(2024, time.March, 20), "2024-03-25"}, // Wednesday
	}
	for _, tc := range cases {
		if got := tc.day.NextMonday().String(); got != tc.want {
			t.Errorf("NextMonday(%s): got %s, want %s", tc.day, got, tc.want)
		}
	}
}

func TestDayStamp_DaysBetween(t *testing.T) {
	from := NewDayStamp(2024, time.March, 8)
	to := NewDayStamp(2024, time.March, 15)
	if got := DaysBetween(from, to); got != 7 {
		t.Errorf("DaysBetween: got %d, want 7", got)
	}
}

func TestParseDayStamp_RejectsGarbage(t *testing.T) {
	if _, err := ParseDayStamp("15/03/2024"); err == nil {
		t.Error("expected error for non-wire-format date")
	}
}
