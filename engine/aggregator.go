/*
aggregator.go - Vote attribution over one fetched batch

PURPOSE:
  Folds a batch of delivered events into the per-respondent weekly
  totals. This is the hot core of the reconciliation engine and it is a
  pure function: the same batch, active set and starting scores always
  produce the same result. Nothing here touches I/O.

RULES:
  - Events without a poll-answer payload are skipped (but still counted
    toward the highest sequence number, so the cursor moves past them).
  - Votes for polls outside the active set are skipped; this job only
    scores polls it created.
  - An empty option selection is a retraction and is not a vote. The
    previously recorded value is NOT subtracted; retractions are
    silently ignored, matching long-standing behavior.
  - The vote value is the first selected option index + 1, mapping the
    six presented options onto a 1..6 score scale.
  - Within a batch, one vote per (respondent, poll): the FIRST event
    encountered in source order wins and later ones are ignored. This
    tie-break is a behavioral contract, pinned by tests.

SEE ALSO:
  - registry.go: Supplies the active poll set
  - runner.go: Feeds batches and merges the result into State
*/
package engine

// =============================================================================
// AGGREGATION
// =============================================================================

// AggregationResult is the outcome of folding one batch.
type AggregationResult struct {
	// Scores is an updated copy of the starting scores. The input map is
	// never mutated.
	Scores map[RespondentID]int

	// VoteCounts is an updated copy of the per-respondent vote tallies.
	VoteCounts map[RespondentID]int

	// VotesPerPoll counts the kept votes by poll. A poll appearing here
	// has been handled at least once; the runner folds these ids into
	// the processed set.
	VotesPerPoll map[PollID]int

	// VotesRecorded is how many votes survived filtering and dedup.
	VotesRecorded int

	// HighestSeq is the maximum sequence number across the whole batch,
	// vote or not. Zero when the batch is empty.
	HighestSeq SequenceNum
}

type voteKey struct {
	Respondent RespondentID
	Poll       PollID
}

// AggregateVotes scans the batch once and returns the new totals.
func AggregateVotes(batch []Event, active map[PollID]struct{}, scores, counts map[RespondentID]int) AggregationResult {
	result := AggregationResult{
		Scores:       make(map[RespondentID]int, len(scores)),
		VoteCounts:   make(map[RespondentID]int, len(counts)),
		VotesPerPoll: make(map[PollID]int),
	}
	for r, s := range scores {
		result.Scores[r] = s
	}
	for r, n := range counts {
		result.VoteCounts[r] = n
	}

	seen := make(map[voteKey]struct{})
	for _, ev := range batch {
		if ev.Sequence > result.HighestSeq {
			result.HighestSeq = ev.Sequence
		}

		answer := ev.Answer
		if answer == nil {
			continue
		}
		if _, ok := active[answer.PollID]; !ok {
			continue
		}
		if len(answer.SelectedOptions) == 0 {
			// Retraction; intentionally not modeled as a vote.
			continue
		}

		key := voteKey{Respondent: answer.Respondent.Key(), Poll: answer.PollID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		value := answer.SelectedOptions[0] + 1
		result.Scores[key.Respondent] += value
		result.VoteCounts[key.Respondent]++
		result.VotesPerPoll[key.Poll]++
		result.VotesRecorded++
	}
	return result
}
