package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/interview/agent/mock"
	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/observability"
)

func TestPractice_Run(t *testing.T) {
	cfg := interview.DefaultConfig()
	m, err := interview.New(&cfg,
		interview.WithGenerator(mock.NewHandler(func(context.Context, string, string) (string, error) {
			return "What is the loop invariant?", nil
		})),
		interview.WithRoleGenerator(interview.RoleAssessment, mock.New("SCORE: 80\nSTRENGTHS: clear\nNEEDS_FOLLOWUP: NO")),
		interview.WithObserver(observability.NoOpObserver{}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var out bytes.Buffer
	p := &practice{
		machine: m,
		in:      bufio.NewReader(strings.NewReader("low <= high holds\nmaybe\ne\n")),
		out:     &out,
	}

	if err := p.run(context.Background(), interview.StartRequest{Topic: "Binary search"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, want := range []string{"What is the loop invariant?", "80/100", "unknown choice", "Overall:", "clear"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPractice_EmptyInputEndsEarly(t *testing.T) {
	cfg := interview.DefaultConfig()
	m, err := interview.New(&cfg,
		interview.WithGenerator(mock.NewHandler(func(context.Context, string, string) (string, error) {
			return "Explain heaps.", nil
		})),
		interview.WithObserver(observability.NoOpObserver{}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var out bytes.Buffer
	p := &practice{machine: m, in: bufio.NewReader(strings.NewReader("")), out: &out}

	if err := p.run(context.Background(), interview.StartRequest{Topic: "Heaps"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Interview ended early") {
		t.Errorf("expected early termination report:\n%s", out.String())
	}
}
