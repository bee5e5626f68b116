package interview

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/interview/assessment"
)

// Action is a reviewer's decision on an assessment.
type Action string

const (
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
	ActionEndInterview Action = "end_interview"
)

// Actions lists the decisions a reviewer may take, in display order.
var Actions = []Action{ActionApprove, ActionReject, ActionEndInterview}

// ParseAction normalizes a decision. The empty string means approve; any
// other unknown value is an invalid resumption.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return ActionApprove, nil
	case ActionApprove, ActionReject, ActionEndInterview:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidResumption, s)
	}
}

// ApprovalRequestType identifies assessment review requests.
const ApprovalRequestType = "assessment_review"

// ApprovalRequest is surfaced while a session waits for a reviewer.
type ApprovalRequest struct {
	Type       string             `json:"type"`
	ThreadID   string             `json:"thread_id"`
	Question   string             `json:"question"`
	Answer     string             `json:"answer"`
	Assessment *assessment.Record `json:"assessment"`
	Message    string             `json:"message"`
	Options    []Action           `json:"options"`
}

func newApprovalRequest(threadID string, s State) *ApprovalRequest {
	return &ApprovalRequest{
		Type:       ApprovalRequestType,
		ThreadID:   threadID,
		Question:   s.CurrentQuestion,
		Answer:     s.CurrentAnswer,
		Assessment: s.LastAssessment,
		Message:    "Review the assessment. Approve to continue or reject to regenerate.",
		Options:    Actions,
	}
}
