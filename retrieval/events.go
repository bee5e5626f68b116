package retrieval

import "github.com/tailored-agentic-units/interview/observability"

const (
	EventIndex  observability.EventType = "retrieval.index"
	EventQuery  observability.EventType = "retrieval.query"
	EventDelete observability.EventType = "retrieval.delete"
)

const eventSource = "retrieval.library"
