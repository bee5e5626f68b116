package interview

import (
	"fmt"

	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/orchestrate/config"
	"github.com/tailored-agentic-units/interview/orchestrate/state"
)

// Graph node names. A session suspends before NodeAwaitAnswer and before
// NodeHITLApproval; the persisted entry records which one.
const (
	NodeGatherContext    = "gather_context"
	NodeGenerateQuestion = "generate_question"
	NodeAwaitAnswer      = "await_answer"
	NodeAssess           = "assess"
	NodeHITLApproval     = "hitl_approval"
)

func newGraph(cfg config.GraphConfig, steps *Steps, observer observability.Observer) (*state.Graph[State, Update], error) {
	g, err := state.NewGraphWithObserver(cfg, State.Apply, observer)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		fn   state.NodeFunc[State, Update]
	}{
		{NodeGatherContext, steps.GatherContext},
		{NodeGenerateQuestion, steps.GenerateQuestion},
		{NodeAwaitAnswer, steps.AwaitAnswer},
		{NodeAssess, steps.AssessAnswer},
		{NodeHITLApproval, steps.HITLApproval},
	}
	for _, n := range nodes {
		if err := g.AddNode(n.name, n.fn); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.name, err)
		}
	}

	if err := g.SetEntryPoint(NodeGatherContext); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeGatherContext, NodeGenerateQuestion, nil); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeGenerateQuestion, NodeAwaitAnswer, nil); err != nil {
		return nil, err
	}
	if err := g.AddConditionalEdges(NodeAwaitAnswer, RouteAfterAnswer, map[string]string{
		RouteAssess: NodeAssess,
		RouteEnd:    state.End,
	}); err != nil {
		return nil, err
	}
	if err := g.AddConditionalEdges(NodeAssess, RouteAfterAssessment, map[string]string{
		RouteHITLApproval: NodeHITLApproval,
	}); err != nil {
		return nil, err
	}
	if err := g.AddConditionalEdges(NodeHITLApproval, RouteAfterApproval, map[string]string{
		RouteAssess:           NodeAssess,
		RouteGenerateQuestion: NodeGenerateQuestion,
		RouteEnd:              state.End,
	}); err != nil {
		return nil, err
	}
	if err := g.InterruptBefore(NodeAwaitAnswer, NodeHITLApproval); err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid interview graph: %w", err)
	}
	return g, nil
}
