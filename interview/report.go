package interview

import (
	"fmt"

	"github.com/tailored-agentic-units/interview/assessment"
)

const reportListLimit = 5

// Report is the final assessment of a session.
type Report struct {
	ThreadID        string              `json:"thread_id"`
	Topic           string              `json:"topic"`
	OverallScore    int                 `json:"overall_score"`
	TotalQuestions  int                 `json:"total_questions"`
	Summary         string              `json:"summary"`
	Strengths       []string            `json:"strengths"`
	Weaknesses      []string            `json:"weaknesses"`
	Recommendations []string            `json:"recommendations"`
	Assessments     []assessment.Record `json:"assessments"`
}

// NewReport summarizes the accepted assessments of s. A session without any
// gets the early termination report.
func NewReport(threadID string, s State) *Report {
	if len(s.Assessments) == 0 {
		return &Report{
			ThreadID:       threadID,
			Topic:          s.Topic,
			TotalQuestions: s.QuestionCount,
			Summary: fmt.Sprintf(
				"Interview ended early. %d question(s) were asked but no answers were submitted for assessment.",
				s.QuestionCount,
			),
			Strengths:  []string{"Started interview practice session"},
			Weaknesses: []string{"Interview ended before completing assessments"},
			Recommendations: []string{
				fmt.Sprintf("Try another session on %s", s.Topic),
				"Complete at least one full question-answer cycle for feedback",
				"Practice speaking clearly and completely",
			},
			Assessments: []assessment.Record{},
		}
	}

	var (
		total      int
		strengths  []string
		weaknesses []string
	)
	records := make([]assessment.Record, 0, len(s.Assessments))
	for _, r := range s.Assessments {
		total += r.Score
		strengths = append(strengths, r.Strengths...)
		weaknesses = append(weaknesses, r.Weaknesses...)
		records = append(records, r.Clone())
	}
	score := total / len(s.Assessments)

	return &Report{
		ThreadID:       threadID,
		Topic:          s.Topic,
		OverallScore:   score,
		TotalQuestions: s.QuestionCount,
		Summary:        fmt.Sprintf("Completed %d questions with average score %d%%", s.QuestionCount, score),
		Strengths:      distinct(strengths, "Completed interview"),
		Weaknesses:     distinct(weaknesses, "Keep practicing"),
		Recommendations: []string{
			fmt.Sprintf("Continue practicing %s", s.Topic),
			"Focus on providing specific examples",
			"Review areas identified as weaknesses",
		},
		Assessments: records,
	}
}

// distinct keeps the first occurrence of each item, up to reportListLimit.
func distinct(items []string, fallback string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, reportListLimit)
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == reportListLimit {
			break
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}
