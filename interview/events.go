package interview

import "github.com/tailored-agentic-units/interview/observability"

const (
	EventSessionStart    observability.EventType = "interview.start"
	EventAnswerSubmitted observability.EventType = "interview.answer"
	EventDecision        observability.EventType = "interview.decision"
	EventSessionComplete observability.EventType = "interview.complete"
	EventSessionEnded    observability.EventType = "interview.end"
	EventStepFailed      observability.EventType = "interview.step.failed"
	EventRetrievalFailed observability.EventType = "interview.retrieval.failed"
	EventReportGenerated observability.EventType = "interview.report"
)

const eventSource = "interview.machine"
