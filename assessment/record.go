// Package assessment turns a model's scoring response into a typed Record.
//
// The response format is requested by the assess step's instructions:
//
//	SCORE: 85
//	FEEDBACK: Clear explanation of the invariant.
//	STRENGTHS: correct complexity, good example
//	WEAKNESSES: skipped overflow
//	NEEDS_FOLLOWUP: NO
//
// Model output is untrusted. Parsing never fails; missing or malformed fields
// take documented defaults.
package assessment

import "slices"

// DefaultScore is the score recorded when SCORE is missing or unparseable.
const DefaultScore = 70

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Record is the result of scoring one answer. Records are values and are
// never modified after parsing; a new assessment supersedes the previous one.
type Record struct {
	Score         int      `json:"score"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	NeedsFollowup bool     `json:"needs_followup"`
}

// Default returns the record produced from an empty response.
func Default() Record {
	return Record{
		Score:      DefaultScore,
		Strengths:  []string{},
		Weaknesses: []string{},
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Strengths = slices.Clone(r.Strengths)
	r.Weaknesses = slices.Clone(r.Weaknesses)
	return r
}

func clampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}
