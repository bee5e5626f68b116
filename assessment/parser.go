package assessment

import (
	"strconv"
	"strings"
)

// Response labels.
const (
	LabelScore         = "SCORE"
	LabelFeedback      = "FEEDBACK"
	LabelStrengths     = "STRENGTHS"
	LabelWeaknesses    = "WEAKNESSES"
	LabelNeedsFollowup = "NEEDS_FOLLOWUP"
)

// Parser converts raw scoring text into a Record. Implementations must not
// fail: unusable input yields defaults.
type Parser interface {
	Parse(text string) Record
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(text string) Record

// Parse calls f(text).
func (f ParserFunc) Parse(text string) Record {
	return f(text)
}

// DefaultParser accepts the labeled line format and, when the model answered
// with a JSON object instead, the equivalent JSON document.
var DefaultParser Parser = ParserFunc(Parse)

// Parse reads the labeled line format. Labels may appear in any order, each on
// its own line as "LABEL: value"; unrecognized lines are ignored. A later
// occurrence of a label overrides an earlier one.
//
// Responses that look like JSON are decoded with ParseJSON first and fall back
// to the line format if decoding fails.
func Parse(text string) Record {
	if looksLikeJSON(text) {
		if record, err := ParseJSON(text); err == nil {
			return record
		}
	}
	return ParseLines(text)
}

// ParseLines parses the labeled line format only.
func ParseLines(text string) Record {
	record := Default()

	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)

		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch label {
		case LabelScore:
			if score, ok := parseScore(value); ok {
				record.Score = score
			}
		case LabelFeedback:
			record.Feedback = value
		case LabelStrengths:
			record.Strengths = splitList(value)
		case LabelWeaknesses:
			record.Weaknesses = splitList(value)
		case LabelNeedsFollowup:
			record.NeedsFollowup = strings.ToUpper(value) == "YES"
		}
	}

	return record
}

// parseScore takes the first whitespace-delimited token as an integer.
func parseScore(value string) (int, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, false
	}
	score, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return clampScore(score), true
}

// splitList splits on commas, trims each item and drops empty ones.
func splitList(value string) []string {
	items := []string{}
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
