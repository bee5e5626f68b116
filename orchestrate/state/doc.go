// Package state provides LangGraph-style graph execution over typed state.
//
// A Graph is parameterized by two types: the state S threaded through every
// node, and the update U each node returns. A Reducer merges an update into
// the state; it is the only place state changes, which keeps every node a
// pure function of its input and makes each merge all-or-nothing.
//
// # Core Components
//
// Node - computation step returning an update for the current state
//
// Edge - predicate transition between nodes
//
// Router - conditional edge; maps state to a named route and the route to a node
//
// Graph - executor with entry point, interrupts, cycle detection and events
//
// # Interrupts
//
// A graph run stops when it reaches End or when it is about to enter a node
// registered with InterruptBefore (or has just left one registered with
// InterruptAfter). The Result of an interrupted run carries a Checkpoint: the
// node to continue at and the state at that point. Persisting the checkpoint
// is the caller's business. Resume applies an input update to the
// checkpointed state and continues at the checkpoint node:
//
//	graph.AddNode("draft", draftNode)
//	graph.AddNode("review", reviewNode)
//	graph.AddEdge("draft", "review", nil)
//	graph.AddEdge("review", state.End, nil)
//	graph.SetEntryPoint("draft")
//	graph.InterruptBefore("review")
//
//	res, err := graph.Execute(ctx, initial)    // stops before "review"
//	save(res.Checkpoint())
//	res, err = graph.Resume(ctx, load(), verdict)
//
// # Observability
//
// Graph execution emits graph.*, node.* and edge.* events through the
// configured observer. node.complete carries the node name and duration so
// a MetricsObserver can build per-step latency histograms.
package state
