package state

// End is the terminal pseudo-node. Edges and routes pointing at End finish
// the run.
const End = "__end__"

// Edge represents a transition between nodes in a state graph.
type Edge[S any] struct {
	// From is the source node name
	From string

	// To is the destination node name, or End
	To string

	// Name optionally describes the predicate for events (e.g. "hasAnswer")
	Name string

	// Predicate determines if this edge can be traversed (nil = always transition)
	Predicate Predicate[S]
}

// Predicate evaluates state to determine if an edge can be traversed.
type Predicate[S any] func(s S) bool

// Router maps state to a route name. Routes are resolved to nodes through the
// table given to AddConditionalEdges.
type Router[S any] func(s S) string

// Always returns a predicate that always evaluates to true.
func Always[S any]() Predicate[S] {
	return func(S) bool { return true }
}

// Not inverts a predicate.
func Not[S any](predicate Predicate[S]) Predicate[S] {
	return func(s S) bool {
		return !predicate(s)
	}
}

// And combines predicates with logical AND (all must be true).
func And[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR (at least one must be true).
func Or[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if p(s) {
				return true
			}
		}
		return false
	}
}

type conditional[S any] struct {
	route   Router[S]
	targets map[string]string
}
