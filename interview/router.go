package interview

// Route names returned by the routers.
const (
	RouteAssess           = "assess"
	RouteHITLApproval     = "hitl_approval"
	RouteGenerateQuestion = "generate_question"
	RouteEnd              = "end"
)

// RouteAfterAnswer ends the session on an empty answer and assesses
// anything else.
func RouteAfterAnswer(s State) string {
	if s.CurrentAnswer == "" {
		return RouteEnd
	}
	return RouteAssess
}

// RouteAfterAssessment always routes to human review.
func RouteAfterAssessment(State) string {
	return RouteHITLApproval
}

// RouteAfterApproval re-assesses a rejected assessment, ends on
// end_interview, and otherwise moves on to the next question.
func RouteAfterApproval(s State) string {
	switch {
	case !s.Approved:
		return RouteAssess
	case s.Decision == ActionEndInterview:
		return RouteEnd
	default:
		return RouteGenerateQuestion
	}
}
