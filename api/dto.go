// dto.go - Response types for the status API. Pure data carriers; any
// shaping happens in the handlers.
package api

import "github.com/warp/poll-engine/engine"

// StandingsDTO is the scoreboard response.
type StandingsDTO struct {
	WeekStart *string           `json:"week_start"`
	Standings []engine.Standing `json:"standings"`
}

// StateDTO summarizes the reconciliation bookkeeping.
type StateDTO struct {
	Cursor         int64   `json:"cursor"`
	WeekStart      *string `json:"week_start"`
	ActivePolls    int     `json:"active_polls"`
	ProcessedPolls int     `json:"processed_polls"`
	Respondents    int     `json:"respondents"`
}

// ErrorResponse is the uniform error wrapper.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
