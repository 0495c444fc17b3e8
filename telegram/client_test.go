package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp/poll-engine/engine"
	"github.com/warp/poll-engine/logger"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New("test-token", "chat-99", logger.Discard())
	c.baseURL = server.URL
	return c
}

func decodeBody(t *testing.T, r *http.Request, into any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
}

// =============================================================================
// CREATE POLL
// =============================================================================

func TestClient_CreatePoll(t *testing.T) {
	var got sendPollRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendPoll" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		decodeBody(t, r, &got)
		w.Write([]byte(`{"ok":true,"result":{"message_id":321,"poll":{"id":"poll-abc"}}}`))
	})

	pollID, ref, err := c.CreatePoll(context.Background(),
		"Wednesday, March 13, 2024",
		[]string{"1", "2", "3", "4", "5", "6"},
		false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pollID != engine.PollID("poll-abc") || ref != 321 {
		t.Errorf("got (%s, %d), want (poll-abc, 321)", pollID, ref)
	}
	if got.ChatID != "chat-99" {
		t.Errorf("chat id: got %s", got.ChatID)
	}
	if got.IsAnonymous || got.AllowsMultipleAnswers {
		t.Error("daily poll must be non-anonymous and single-choice")
	}
	if len(got.Options) != 6 {
		t.Errorf("options: got %v", got.Options)
	}
}

// =============================================================================
// FETCH EVENTS
// =============================================================================

func TestClient_FetchEvents_OffsetIsExclusive(t *testing.T) {
	var got getUpdatesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":43,"poll_answer":{"poll_id":"p1","user":{"id":7,"username":"alice"},"option_ids":[4]}},
			{"update_id":44}
		]}`))
	})

	events, err := c.FetchEvents(context.Background(), 42, 100, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Offset != 43 {
		t.Errorf("offset: got %d, want cursor+1 = 43", got.Offset)
	}
	if got.Limit != 100 || got.Timeout != 10 {
		t.Errorf("tuning: got limit %d timeout %d", got.Limit, got.Timeout)
	}

	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Sequence != 43 || events[0].Answer == nil {
		t.Fatalf("first event malformed: %+v", events[0])
	}
	if events[0].Answer.PollID != "p1" || events[0].Answer.Respondent.Username != "alice" {
		t.Errorf("answer mapping: %+v", events[0].Answer)
	}
	if len(events[0].Answer.SelectedOptions) != 1 || events[0].Answer.SelectedOptions[0] != 4 {
		t.Errorf("options mapping: %+v", events[0].Answer.SelectedOptions)
	}
	if events[1].Answer != nil {
		t.Error("non-vote update must map to an event without an answer")
	}
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestClient_APIRejectionIsGatewayError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := c.SendText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !engine.IsGateway(err) {
		t.Errorf("expected *engine.GatewayError, got %T: %v", err, err)
	}
}

func TestClient_NonJSONResponseIsGatewayError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.FetchEvents(context.Background(), 0, 100, 10)
	if !engine.IsGateway(err) {
		t.Errorf("expected *engine.GatewayError, got %T: %v", err, err)
	}
}
