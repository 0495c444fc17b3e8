/*
Package telegram implements the engine's Gateway on the Telegram Bot API.

PURPOSE:
  Thin JSON-over-HTTP client for the three platform capabilities the
  engine consumes: sendPoll, getUpdates (long-poll) and sendMessage.
  The engine never sees wire shapes; this package maps Bot API updates
  onto engine.Event and reports every failure as *engine.GatewayError.

API MAPPING:
  CreatePoll  -> sendPoll     is_anonymous=false, allows_multiple_answers=false
  FetchEvents -> getUpdates   offset = after+1 (exclusive lower bound)
  SendText    -> sendMessage

SEE ALSO:
  - engine/gateway.go: The contract this satisfies
*/
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/warp/poll-engine/engine"
	"github.com/warp/poll-engine/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API for a single bot and chat.
type Client struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
	log     *logger.Logger
}

// New creates a client for the given bot token and destination chat.
func New(token, chatID string, log *logger.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// =============================================================================
// WIRE TYPES - Bot API request/response shapes
// =============================================================================

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

type sendPollRequest struct {
	ChatID                string   `json:"chat_id"`
	Question              string   `json:"question"`
	Options               []string `json:"options"`
	IsAnonymous           bool     `json:"is_anonymous"`
	AllowsMultipleAnswers bool     `json:"allows_multiple_answers"`
}

type sendPollResult struct {
	MessageID int64 `json:"message_id"`
	Poll      struct {
		ID string `json:"id"`
	} `json:"poll"`
}

type getUpdatesRequest struct {
	Offset  int64 `json:"offset"`
	Limit   int   `json:"limit"`
	Timeout int   `json:"timeout"`
}

type update struct {
	UpdateID   int64 `json:"update_id"`
	PollAnswer *struct {
		PollID string `json:"poll_id"`
		User   struct {
			ID        int64  `json:"id"`
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
		} `json:"user"`
		OptionIDs []int `json:"option_ids"`
	} `json:"poll_answer"`
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// =============================================================================
// GATEWAY IMPLEMENTATION
// =============================================================================

// CreatePoll posts a poll via sendPoll and returns the poll id and the
// message id of the carrying message.
func (c *Client) CreatePoll(ctx context.Context, question string, options []string, anonymous, multiSelect bool) (engine.PollID, int64, error) {
	payload := sendPollRequest{
		ChatID:                c.chatID,
		Question:              question,
		Options:               options,
		IsAnonymous:           anonymous,
		AllowsMultipleAnswers: multiSelect,
	}

	var result sendPollResult
	if err := c.call(ctx, "sendPoll", payload, &result); err != nil {
		return "", 0, err
	}

	c.log.Info("poll posted", "poll_id", result.Poll.ID, "message_id", result.MessageID)
	return engine.PollID(result.Poll.ID), result.MessageID, nil
}

// FetchEvents long-polls getUpdates for events strictly after the cursor.
func (c *Client) FetchEvents(ctx context.Context, after engine.SequenceNum, maxCount, waitSeconds int) ([]engine.Event, error) {
	payload := getUpdatesRequest{
		Offset:  int64(after) + 1,
		Limit:   maxCount,
		Timeout: waitSeconds,
	}

	var updates []update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}

	events := make([]engine.Event, 0, len(updates))
	for _, u := range updates {
		ev := engine.Event{Sequence: engine.SequenceNum(u.UpdateID)}
		if u.PollAnswer != nil {
			ev.Answer = &engine.PollAnswer{
				PollID: engine.PollID(u.PollAnswer.PollID),
				Respondent: engine.Respondent{
					ID:        u.PollAnswer.User.ID,
					Username:  u.PollAnswer.User.Username,
					FirstName: u.PollAnswer.User.FirstName,
				},
				SelectedOptions: u.PollAnswer.OptionIDs,
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// SendText posts a plain message via sendMessage.
func (c *Client) SendText(ctx context.Context, message string) error {
	payload := sendMessageRequest{ChatID: c.chatID, Text: message}
	return c.call(ctx, "sendMessage", payload, nil)
}

// call POSTs one Bot API method and decodes its result envelope. All
// failure modes come back as *engine.GatewayError.
func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &engine.GatewayError{Op: method, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return &engine.GatewayError{Op: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &engine.GatewayError{Op: method, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &engine.GatewayError{Op: method, Err: fmt.Errorf("read response: %w", err)}
	}

	var envelope apiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return &engine.GatewayError{
			Op:  method,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
		}
	}
	if !envelope.OK {
		return &engine.GatewayError{
			Op:  method,
			Err: fmt.Errorf("api rejected call (status %d): %s", resp.StatusCode, envelope.Description),
		}
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return &engine.GatewayError{Op: method, Err: fmt.Errorf("decode result: %w", err)}
		}
	}
	return nil
}
