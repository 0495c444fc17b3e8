package engine

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// WIRE ENCODING TESTS
// =============================================================================

func TestState_WireEncoding_SetsBecomeSortedArrays(t *testing.T) {
	state := NewState()
	ws := NewDayStamp(2024, time.March, 11)
	state.WeekStart = &ws
	state.Cursor = 42
	state.Scores["alice"] = 12
	state.ActivePolls["p9"] = PollRecord{DeliveryRef: 7, CreatedOn: "2024-03-14"}
	state.ProcessedPolls["zz"] = struct{}{}
	state.ProcessedPolls["aa"] = struct{}{}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, `"processed_polls":["aa","zz"]`) {
		t.Errorf("processed set not a sorted array: %s", text)
	}
	if !strings.Contains(text, `"last_update_id":42`) {
		t.Errorf("cursor key missing: %s", text)
	}
	if !strings.Contains(text, `"current_week_start":"2024-03-11"`) {
		t.Errorf("week start missing: %s", text)
	}

	decoded := NewState()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded.ProcessedPolls["zz"]; !ok {
		t.Error("processed set not reconstructed")
	}
	if decoded.Cursor != 42 || decoded.Scores["alice"] != 12 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
	if decoded.ActivePolls["p9"].DeliveryRef != 7 {
		t.Errorf("poll record lost: %+v", decoded.ActivePolls)
	}
}

func TestState_UnmarshalToleratesMissingFields(t *testing.T) {
	// Snapshots written before vote_counts existed must still load.
	legacy := `{
		"current_week_start": null,
		"active_polls": {},
		"votes": {"alice": 3},
		"processed_polls": [],
		"last_update_id": 9
	}`

	state := NewState()
	if err := json.Unmarshal([]byte(legacy), state); err != nil {
		t.Fatalf("unmarshal legacy snapshot: %v", err)
	}

	if state.WeekStart != nil {
		t.Error("null week start should stay nil")
	}
	if state.VoteCounts == nil {
		t.Error("missing vote_counts must initialize to an empty map")
	}
	if state.Scores["alice"] != 3 || state.Cursor != 9 {
		t.Errorf("legacy fields lost: %+v", state)
	}
}

func TestState_CloneIsDeep(t *testing.T) {
	state := NewState()
	state.Scores["alice"] = 1
	state.ProcessedPolls["p1"] = struct{}{}

	clone := state.Clone()
	clone.Scores["alice"] = 99
	delete(clone.ProcessedPolls, "p1")

	if state.Scores["alice"] != 1 {
		t.Error("clone shares the scores map")
	}
	if _, ok := state.ProcessedPolls["p1"]; !ok {
		t.Error("clone shares the processed set")
	}
}
