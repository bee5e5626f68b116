package server

import (
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"

	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/retrieval"
	"github.com/tailored-agentic-units/interview/session"
)

// statusOf maps machine and library errors to HTTP status codes.
func statusOf(err error) int {
	var stepErr *interview.StepError
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrInvalidResumption),
		errors.Is(err, interview.ErrInvalidTransition),
		errors.Is(err, interview.ErrSessionActive),
		errors.Is(err, interview.ErrEmptyTopic),
		errors.Is(err, session.ErrInvalidThreadID),
		retrieval.IsClientError(err):
		return http.StatusBadRequest
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMaterialsDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &stepErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// codeOf maps machine and library errors to connect codes.
func codeOf(err error) connect.Code {
	var stepErr *interview.StepError

	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return connect.CodeNotFound
	case errors.Is(err, interview.ErrSessionActive):
		return connect.CodeAlreadyExists
	case errors.Is(err, interview.ErrInvalidResumption),
		errors.Is(err, interview.ErrInvalidTransition):
		return connect.CodeFailedPrecondition
	case errors.Is(err, interview.ErrEmptyTopic),
		errors.Is(err, session.ErrInvalidThreadID),
		retrieval.IsClientError(err):
		return connect.CodeInvalidArgument
	case errors.Is(err, ErrMaterialsDisabled):
		return connect.CodeUnimplemented
	case errors.As(err, &stepErr):
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), gin.H{"detail": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
