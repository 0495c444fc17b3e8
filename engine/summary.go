package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STANDINGS - The weekly scoreboard, ordered for presentation
// =============================================================================

// Standing is one respondent's line in the weekly summary.
type Standing struct {
	Respondent RespondentID    `json:"respondent"`
	Score      int             `json:"score"`
	Average    decimal.Decimal `json:"average"`
}

// Standings orders the scoreboard for presentation: descending by score,
// ties broken by respondent key ascending. The ordering must be fully
// deterministic because the snapshot round-trips through JSON between
// runs and map iteration order is not a contract.
func Standings(scores, counts map[RespondentID]int) []Standing {
	out := make([]Standing, 0, len(scores))
	for r, score := range scores {
		s := Standing{Respondent: r, Score: score}
		if n := counts[r]; n > 0 {
			s.Average = decimal.NewFromInt(int64(score)).
				DivRound(decimal.NewFromInt(int64(n)), 2)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Respondent < out[j].Respondent
	})
	return out
}

// FormatSummary renders the weekly summary message. Callers must not send
// it when the scoreboard is empty; the run suppresses the message rather
// than posting noise.
func FormatSummary(standings []Standing) string {
	var b strings.Builder
	b.WriteString("🗳️ Weekly Poll Summary:\n\n")
	for _, s := range standings {
		if s.Average.IsZero() {
			fmt.Fprintf(&b, "%s: %d\n", s.Respondent, s.Score)
			continue
		}
		fmt.Fprintf(&b, "%s: %d (avg %s)\n", s.Respondent, s.Score, s.Average.StringFixed(2))
	}
	return b.String()
}
