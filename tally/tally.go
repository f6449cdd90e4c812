// Package tally aggregates recorded answers into per-option counts.
//
// Aggregation is a pure function of a question's answers: no state, no side
// effects, deterministic output. The lifecycle controller calls it after
// every submission for the partial broadcast and once more when a question
// ends for the frozen results.
package tally

// Tally is the aggregated outcome of one question: per-option answer counts
// parallel to the option labels, plus the total number of respondents.
type Tally struct {
	Counts []int `json:"counts"`
	Total  int   `json:"total"`
}

// Compute aggregates recorded answers into a Tally. Answers whose index
// falls outside [0, numOptions) are excluded from the counts but still
// counted toward the total: any recorded answer marks its session as having
// answered, which is the same rule the early-completion check applies.
func Compute(numOptions int, answers []int) Tally {
	counts := make([]int, numOptions)
	for _, idx := range answers {
		if idx >= 0 && idx < numOptions {
			counts[idx]++
		}
	}
	return Tally{Counts: counts, Total: len(answers)}
}
