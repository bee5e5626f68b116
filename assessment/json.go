package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ParseJSON decodes a JSON-shaped scoring response. Keys are matched without
// regard to case. Lists may be arrays or comma-separated strings, and the
// follow-up flag may be a boolean or "YES"/"NO". Malformed JSON (trailing
// commas, single quotes, truncated output) is repaired before decoding.
//
// Unlike Parse, ParseJSON reports an error when the text is not a JSON object.
func ParseJSON(text string) (Record, error) {
	body := extractJSON(text)

	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(body)
		if repairErr != nil {
			return Record{}, fmt.Errorf("parse assessment json: %w", errors.Join(err, repairErr))
		}
		fields = nil
		if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
			return Record{}, fmt.Errorf("parse repaired assessment json: %w", err)
		}
	}
	if fields == nil {
		return Record{}, fmt.Errorf("parse assessment json: not an object")
	}

	record := Default()
	for key, value := range fields {
		switch strings.ToUpper(key) {
		case LabelScore:
			if score, ok := jsonScore(value); ok {
				record.Score = score
			}
		case LabelFeedback:
			if s, ok := value.(string); ok {
				record.Feedback = strings.TrimSpace(s)
			}
		case LabelStrengths:
			record.Strengths = jsonList(value)
		case LabelWeaknesses:
			record.Weaknesses = jsonList(value)
		case LabelNeedsFollowup:
			record.NeedsFollowup = jsonFlag(value)
		}
	}

	return record, nil
}

func looksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "```")
}

func extractJSON(text string) string {
	if matches := fencedJSON.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

func jsonScore(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Min(math.Max(v, MinScore), MaxScore)), true
	case string:
		return parseScore(v)
	}
	return 0, false
}

func jsonList(value any) []string {
	switch v := value.(type) {
	case string:
		return splitList(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					items = append(items, s)
				}
			}
		}
		return items
	}
	return []string{}
}

func jsonFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.ToUpper(strings.TrimSpace(v)) == "YES"
	}
	return false
}
