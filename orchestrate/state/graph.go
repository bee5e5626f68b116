package state

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/orchestrate/config"
)

// Graph defines a workflow as a directed graph of nodes and edges over a
// typed state S, with node updates of type U merged by a Reducer.
//
// Example workflow structure:
//
//	graph, err := state.NewGraph(cfg, reduce)
//	graph.AddNode("analyze", analyzeNode)
//	graph.AddNode("review", reviewNode)
//	graph.AddEdge("analyze", "review", nil)
//	graph.AddConditionalEdges("review", routeReview, map[string]string{
//	    "retry": "analyze",
//	    "done":  state.End,
//	})
//	graph.SetEntryPoint("analyze")
//	graph.InterruptBefore("review")
//	result, err := graph.Execute(ctx, initial)
//
// A Graph is safe for concurrent Execute and Resume calls once it has been
// built; the builder methods are not.
type Graph[S, U any] struct {
	name            string
	nodes           map[string]Node[S, U]
	edges           map[string][]Edge[S]
	routers         map[string]conditional[S]
	entryPoint      string
	interruptBefore map[string]bool
	interruptAfter  map[string]bool
	reduce          Reducer[S, U]
	maxIterations   int
	observer        observability.Observer
}

// NewGraph creates a new state graph from configuration.
//
// The constructor resolves the observer from the observability registry and
// initializes the graph with empty node and edge collections.
func NewGraph[S, U any](cfg config.GraphConfig, reduce Reducer[S, U]) (*Graph[S, U], error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return NewGraphWithObserver(cfg, reduce, observer)
}

// NewGraphWithObserver creates a graph with an explicit observer, bypassing
// the registry. A nil observer discards events.
func NewGraphWithObserver[S, U any](cfg config.GraphConfig, reduce Reducer[S, U], observer observability.Observer) (*Graph[S, U], error) {
	if reduce == nil {
		return nil, fmt.Errorf("reducer cannot be nil")
	}

	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = config.DefaultGraphConfig(cfg.Name).MaxIterations
	}

	return &Graph[S, U]{
		name:            cfg.Name,
		nodes:           make(map[string]Node[S, U]),
		edges:           make(map[string][]Edge[S]),
		routers:         make(map[string]conditional[S]),
		interruptBefore: make(map[string]bool),
		interruptAfter:  make(map[string]bool),
		reduce:          reduce,
		maxIterations:   maxIterations,
		observer:        observer,
	}, nil
}

// Name returns the graph identifier used as event source.
func (g *Graph[S, U]) Name() string {
	return g.name
}

// AddNode registers a computation step in the graph.
//
// Nodes must have unique names. End is reserved.
func (g *Graph[S, U]) AddNode(name string, node Node[S, U]) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if name == End {
		return fmt.Errorf("node name %s is reserved", End)
	}

	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %s already exists", name)
	}

	g.nodes[name] = node
	return nil
}

// AddEdge creates a transition between nodes.
//
// Both nodes must exist before adding an edge; to may be End. Predicate can be
// nil for unconditional transitions. Edges are evaluated in insertion order
// and the first matching edge wins.
func (g *Graph[S, U]) AddEdge(from, to string, predicate Predicate[S]) error {
	return g.AddNamedEdge(from, to, "", predicate)
}

// AddNamedEdge is AddEdge with a predicate name reported in transition events.
func (g *Graph[S, U]) AddNamedEdge(from, to, name string, predicate Predicate[S]) error {
	if err := g.checkEndpoints(from, to); err != nil {
		return err
	}

	if _, routed := g.routers[from]; routed {
		return fmt.Errorf("node %s already has conditional edges", from)
	}

	g.edges[from] = append(g.edges[from], Edge[S]{
		From:      from,
		To:        to,
		Name:      name,
		Predicate: predicate,
	})
	return nil
}

// AddConditionalEdges routes out of from by calling route and looking the
// returned name up in targets. Every target must be a registered node or End.
// A node has either conditional edges or plain edges, not both.
func (g *Graph[S, U]) AddConditionalEdges(from string, route Router[S], targets map[string]string) error {
	if route == nil {
		return fmt.Errorf("router cannot be nil")
	}

	if len(targets) == 0 {
		return fmt.Errorf("conditional edges from %s need at least one target", from)
	}

	for _, to := range targets {
		if err := g.checkEndpoints(from, to); err != nil {
			return err
		}
	}

	if _, exists := g.routers[from]; exists {
		return fmt.Errorf("node %s already has conditional edges", from)
	}

	if len(g.edges[from]) > 0 {
		return fmt.Errorf("node %s already has edges", from)
	}

	copied := make(map[string]string, len(targets))
	for k, v := range targets {
		copied[k] = v
	}

	g.routers[from] = conditional[S]{route: route, targets: copied}
	return nil
}

// SetEntryPoint defines the node Execute starts at.
func (g *Graph[S, U]) SetEntryPoint(node string) error {
	if node == "" {
		return fmt.Errorf("entry point cannot be empty")
	}

	if g.entryPoint != "" {
		return fmt.Errorf("entry point already set to %s", g.entryPoint)
	}

	if _, exists := g.nodes[node]; !exists {
		return fmt.Errorf("entry point node %s does not exist", node)
	}

	g.entryPoint = node
	return nil
}

// InterruptBefore stops a run before any of the given nodes executes. The
// run's Result names the node so the caller can Resume into it.
func (g *Graph[S, U]) InterruptBefore(nodes ...string) error {
	for _, node := range nodes {
		if _, exists := g.nodes[node]; !exists {
			return fmt.Errorf("interrupt node %s does not exist", node)
		}
		g.interruptBefore[node] = true
	}
	return nil
}

// InterruptAfter stops a run right after any of the given nodes executes,
// before its successor runs.
func (g *Graph[S, U]) InterruptAfter(nodes ...string) error {
	for _, node := range nodes {
		if _, exists := g.nodes[node]; !exists {
			return fmt.Errorf("interrupt node %s does not exist", node)
		}
		g.interruptAfter[node] = true
	}
	return nil
}

// Validate checks graph structure for configuration errors:
//   - at least one node exists
//   - the entry point is set
//   - every node has a way out (edges or conditional edges)
func (g *Graph[S, U]) Validate() error {
	if len(g.nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}

	if g.entryPoint == "" {
		return fmt.Errorf("entry point not set")
	}

	for name := range g.nodes {
		_, routed := g.routers[name]
		if !routed && len(g.edges[name]) == 0 {
			return fmt.Errorf("node %s has no outgoing edges", name)
		}
	}

	return nil
}

// Execute runs the graph from the entry point with the initial state.
//
// Execution:
//  1. Validate graph structure
//  2. Stop if the current node is End or an interrupt-before node
//  3. Execute the node and reduce its update into the state
//  4. Choose the next node from its edges or router
//  5. Stop if the node was an interrupt-after node, otherwise repeat
//
// Returns *ExecutionError on failure. The state passed in is never modified,
// so a failed run leaves the caller's copy as it was.
func (g *Graph[S, U]) Execute(ctx context.Context, initial S) (Result[S], error) {
	return g.execute(ctx, g.entryPoint, initial, false)
}

// Resume continues a run from a checkpoint.
//
// The input update is reduced into the checkpointed state first, then
// execution continues at cp.Node. The interrupt registered on cp.Node is not
// re-triggered; interrupts further along the path are.
func (g *Graph[S, U]) Resume(ctx context.Context, cp Checkpoint[S], input U) (Result[S], error) {
	if cp.Node == "" || cp.Node == End {
		return Result[S]{State: cp.State}, fmt.Errorf("checkpoint has no resumable node")
	}

	if _, exists := g.nodes[cp.Node]; !exists {
		return Result[S]{State: cp.State}, fmt.Errorf("checkpoint node %s does not exist", cp.Node)
	}

	g.emit(ctx, EventGraphResume, observability.LevelInfo, map[string]any{
		"node":            cp.Node,
		"checkpoint_time": cp.Timestamp,
	})

	return g.execute(ctx, cp.Node, g.reduce(cp.State, input), true)
}

func (g *Graph[S, U]) execute(ctx context.Context, start string, initial S, resuming bool) (Result[S], error) {
	if err := g.Validate(); err != nil {
		return Result[S]{State: initial}, fmt.Errorf("graph validation failed: %w", err)
	}

	g.emit(ctx, EventGraphStart, observability.LevelInfo, map[string]any{
		"start_node": start,
		"resuming":   resuming,
	})

	current := start
	s := initial
	iterations := 0
	visited := make(map[string]int)
	path := make([]string, 0, 8)

	for {
		if current == End {
			g.emit(ctx, EventGraphComplete, observability.LevelInfo, map[string]any{
				"iterations": iterations,
				"path":       path,
			})
			return Result[S]{State: s, Path: path}, nil
		}

		if g.interruptBefore[current] && !(resuming && iterations == 0) {
			return g.interrupt(ctx, s, current, path), nil
		}

		if err := ctx.Err(); err != nil {
			return Result[S]{State: s, Path: path}, &ExecutionError{
				NodeName: current,
				Path:     path,
				Err:      fmt.Errorf("execution cancelled: %w", err),
			}
		}

		iterations++
		if iterations > g.maxIterations {
			return Result[S]{State: s, Path: path}, &ExecutionError{
				NodeName: current,
				Path:     path,
				Err:      fmt.Errorf("max iterations (%d) exceeded", g.maxIterations),
			}
		}

		visited[current]++
		path = append(path, current)

		if visited[current] > 1 {
			g.emit(ctx, EventCycleDetected, observability.LevelWarning, map[string]any{
				"node":        current,
				"visit_count": visited[current],
				"iteration":   iterations,
			})
		}

		node, exists := g.nodes[current]
		if !exists {
			return Result[S]{State: s, Path: path}, &ExecutionError{
				NodeName: current,
				Path:     path,
				Err:      fmt.Errorf("node %s not found", current),
			}
		}

		g.emit(ctx, EventNodeStart, observability.LevelVerbose, map[string]any{
			"node":      current,
			"iteration": iterations,
		})

		began := time.Now()
		update, err := node.Execute(ctx, s)

		g.emit(ctx, EventNodeComplete, observability.LevelVerbose, map[string]any{
			observability.DataNode:     current,
			observability.DataDuration: time.Since(began),
			observability.DataError:    err != nil,
			"iteration":                iterations,
		})

		if err != nil {
			return Result[S]{State: s, Path: path}, &ExecutionError{
				NodeName: current,
				Path:     path,
				Err:      fmt.Errorf("node execution failed: %w", err),
			}
		}

		s = g.reduce(s, update)

		next, err := g.next(ctx, current, s)
		if err != nil {
			return Result[S]{State: s, Path: path}, &ExecutionError{
				NodeName: current,
				Path:     path,
				Err:      err,
			}
		}

		if g.interruptAfter[current] && next != End {
			return g.interrupt(ctx, s, next, path), nil
		}

		current = next
	}
}

func (g *Graph[S, U]) interrupt(ctx context.Context, s S, next string, path []string) Result[S] {
	g.emit(ctx, EventGraphInterrupt, observability.LevelInfo, map[string]any{
		"next": next,
		"path": path,
	})
	return Result[S]{State: s, Next: next, Path: path}
}

// next resolves the successor of from. Conditional edges take the router's
// route; plain edges take the first edge whose predicate holds.
func (g *Graph[S, U]) next(ctx context.Context, from string, s S) (string, error) {
	if cond, routed := g.routers[from]; routed {
		route := cond.route(s)
		to, ok := cond.targets[route]
		if !ok {
			return "", fmt.Errorf("%w: route %q from %s has no target", ErrNoTransition, route, from)
		}

		g.emit(ctx, EventEdgeTransition, observability.LevelVerbose, map[string]any{
			"from":  from,
			"to":    to,
			"route": route,
		})
		return to, nil
	}

	for i, edge := range g.edges[from] {
		if edge.Predicate == nil || edge.Predicate(s) {
			g.emit(ctx, EventEdgeTransition, observability.LevelVerbose, map[string]any{
				"from":           edge.From,
				"to":             edge.To,
				"edge_index":     i,
				"predicate_name": edge.Name,
			})
			return edge.To, nil
		}
	}

	return "", fmt.Errorf("%w from node %s", ErrNoTransition, from)
}

func (g *Graph[S, U]) checkEndpoints(from, to string) error {
	if from == "" {
		return fmt.Errorf("from node cannot be empty")
	}

	if to == "" {
		return fmt.Errorf("to node cannot be empty")
	}

	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}

	if to == End {
		return nil
	}

	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("to node %s does not exist", to)
	}

	return nil
}

func (g *Graph[S, U]) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(ctx, g.observer, typ, level, g.name, data)
}
