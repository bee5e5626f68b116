package state

import "github.com/tailored-agentic-units/interview/observability"

const (
	// Graph execution
	EventGraphStart     observability.EventType = "graph.start"
	EventGraphComplete  observability.EventType = "graph.complete"
	EventGraphInterrupt observability.EventType = "graph.interrupt"
	EventGraphResume    observability.EventType = "graph.resume"
	EventNodeStart      observability.EventType = "node.start"
	EventNodeComplete   observability.EventType = "node.complete"
	EventEdgeTransition observability.EventType = "edge.transition"
	EventCycleDetected  observability.EventType = "cycle.detected"
)
