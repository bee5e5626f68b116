package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/interview/interview"
)

// ServiceName is the connect service exposing the machine. Messages are
// google.protobuf.Struct values carrying the same fields as the REST API, so
// clients can speak the connect JSON protocol without generated stubs.
const ServiceName = "interview.v1.InterviewService"

// Procedures served by ServiceName.
const (
	ProcedureStart        = "/" + ServiceName + "/Start"
	ProcedureSubmitAnswer = "/" + ServiceName + "/SubmitAnswer"
	ProcedureDecide       = "/" + ServiceName + "/Decide"
	ProcedureGetQuestion  = "/" + ServiceName + "/GetQuestion"
	ProcedureGetApproval  = "/" + ServiceName + "/GetApproval"
	ProcedureGetReport    = "/" + ServiceName + "/GetReport"
	ProcedureEndSession   = "/" + ServiceName + "/EndSession"
)

type decideRequest struct {
	ThreadID string `json:"thread_id"`
	Action   string `json:"action"`
}

type endResponse struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

func (s *Server) rpcHandlers() map[string]http.Handler {
	m := s.machine
	return map[string]http.Handler{
		ProcedureStart: unary(ProcedureStart, func(ctx context.Context, req startRequest) (*interview.Turn, error) {
			return m.Start(ctx, interview.StartRequest{
				ThreadID:     req.ThreadID,
				Topic:        req.Topic,
				Context:      req.Context,
				UseMaterials: req.UseMaterials,
			})
		}),
		ProcedureSubmitAnswer: unary(ProcedureSubmitAnswer, func(ctx context.Context, req answerRequest) (*interview.Turn, error) {
			return m.SubmitAnswer(ctx, req.ThreadID, req.Transcript)
		}),
		ProcedureDecide: unary(ProcedureDecide, func(ctx context.Context, req decideRequest) (*interview.Turn, error) {
			return m.Decide(ctx, req.ThreadID, interview.Action(req.Action))
		}),
		ProcedureGetQuestion: unary(ProcedureGetQuestion, func(ctx context.Context, req threadRequest) (*interview.Turn, error) {
			return m.Question(ctx, req.ThreadID)
		}),
		ProcedureGetApproval: unary(ProcedureGetApproval, func(ctx context.Context, req threadRequest) (*interview.ApprovalRequest, error) {
			return m.PendingApproval(ctx, req.ThreadID)
		}),
		ProcedureGetReport: unary(ProcedureGetReport, func(ctx context.Context, req threadRequest) (*interview.Report, error) {
			return m.Report(ctx, req.ThreadID)
		}),
		ProcedureEndSession: unary(ProcedureEndSession, func(ctx context.Context, req threadRequest) (*endResponse, error) {
			if err := m.End(ctx, req.ThreadID); err != nil {
				return nil, err
			}
			return &endResponse{ThreadID: req.ThreadID, Message: fmt.Sprintf("Session %s ended", req.ThreadID)}, nil
		}),
	}
}

// unary adapts a typed call to a Struct-in, Struct-out connect handler.
func unary[Req, Res any](procedure string, fn func(context.Context, Req) (Res, error)) http.Handler {
	return connect.NewUnaryHandler(procedure, func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
		var in Req
		if err := decodeStruct(req.Msg, &in); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}

		out, err := fn(ctx, in)
		if err != nil {
			return nil, connect.NewError(codeOf(err), err)
		}

		msg, err := encodeStruct(out)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		return connect.NewResponse(msg), nil
	})
}

func decodeStruct(msg *structpb.Struct, v any) error {
	data, err := json.Marshal(msg.AsMap())
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return structpb.NewStruct(fields)
}
