package interview_test

import (
	"testing"

	"github.com/tailored-agentic-units/interview/interview"
)

func TestRouteAfterAnswer(t *testing.T) {
	if got := interview.RouteAfterAnswer(interview.State{}); got != interview.RouteEnd {
		t.Errorf("empty answer routed to %s, want end", got)
	}
	if got := interview.RouteAfterAnswer(interview.State{CurrentAnswer: "I don't know"}); got != interview.RouteAssess {
		t.Errorf("answer routed to %s, want assess", got)
	}
}

func TestRouteAfterAssessment(t *testing.T) {
	states := []interview.State{
		{NeedsFollowup: true},
		{NeedsFollowup: false},
		{Approved: false},
	}
	for _, s := range states {
		if got := interview.RouteAfterAssessment(s); got != interview.RouteHITLApproval {
			t.Errorf("RouteAfterAssessment = %s, want hitl_approval", got)
		}
	}
}

func TestRouteAfterApproval(t *testing.T) {
	tests := []struct {
		name  string
		state interview.State
		want  string
	}{
		{
			name:  "rejected",
			state: interview.State{Approved: false, Decision: interview.ActionReject},
			want:  interview.RouteAssess,
		},
		{
			name:  "approved",
			state: interview.State{Approved: true, Decision: interview.ActionApprove},
			want:  interview.RouteGenerateQuestion,
		},
		{
			name:  "approved with follow-up",
			state: interview.State{Approved: true, NeedsFollowup: true, Decision: interview.ActionApprove},
			want:  interview.RouteGenerateQuestion,
		},
		{
			name:  "ended",
			state: interview.State{Approved: true, Decision: interview.ActionEndInterview},
			want:  interview.RouteEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interview.RouteAfterApproval(tt.state); got != tt.want {
				t.Errorf("RouteAfterApproval = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input   string
		want    interview.Action
		wantErr bool
	}{
		{input: "", want: interview.ActionApprove},
		{input: "approve", want: interview.ActionApprove},
		{input: " Reject ", want: interview.ActionReject},
		{input: "end_interview", want: interview.ActionEndInterview},
		{input: "skip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := interview.ParseAction(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAction = %s, want %s", got, tt.want)
			}
		})
	}
}
