package engine

import "context"

// =============================================================================
// GATEWAY - The messaging platform, as the engine sees it
// =============================================================================

// Gateway is the engine's view of the messaging platform. The contract is
// request/response shape, not wire bytes; implementations own transport,
// credentials and retries. Every method failure is reported as a
// *GatewayError and handled locally by the step that made the call.
type Gateway interface {
	// CreatePoll posts a poll and returns its platform id plus the
	// delivery reference (message id) of the carrying message.
	CreatePoll(ctx context.Context, question string, options []string, anonymous, multiSelect bool) (PollID, int64, error)

	// FetchEvents returns pending events with sequence numbers strictly
	// greater than after, up to maxCount, long-polling up to waitSeconds.
	FetchEvents(ctx context.Context, after SequenceNum, maxCount, waitSeconds int) ([]Event, error)

	// SendText posts a plain text message to the chat.
	SendText(ctx context.Context, message string) error
}
