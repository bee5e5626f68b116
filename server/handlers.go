package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailored-agentic-units/interview/interview"
)

// ErrMaterialsDisabled is returned by the materials endpoints when the
// machine runs without a library.
var ErrMaterialsDisabled = errors.New("materials library is disabled")

type startRequest struct {
	ThreadID     string `json:"thread_id"`
	Topic        string `json:"topic" binding:"required"`
	Context      string `json:"context"`
	UseMaterials bool   `json:"use_materials"`
}

type answerRequest struct {
	ThreadID   string `json:"thread_id" binding:"required"`
	Transcript string `json:"transcript"`
}

type approveRequest struct {
	ThreadID string `json:"thread_id" form:"thread_id"`
	Action   string `json:"action" form:"action"`
}

type threadRequest struct {
	ThreadID string `json:"thread_id" form:"thread_id" binding:"required"`
}

// turnResponse is a Turn with a human readable message.
type turnResponse struct {
	*interview.Turn
	Message string `json:"message"`
}

func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	turn, err := s.machine.Start(c.Request.Context(), interview.StartRequest{
		ThreadID:     req.ThreadID,
		Topic:        req.Topic,
		Context:      req.Context,
		UseMaterials: req.UseMaterials,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, turnResponse{Turn: turn, Message: "Interview started. First question generated."})
}

func (s *Server) handleQuestion(c *gin.Context) {
	var req threadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	turn, err := s.machine.Question(c.Request.Context(), req.ThreadID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	turn, err := s.machine.SubmitAnswer(c.Request.Context(), req.ThreadID, req.Transcript)
	if err != nil {
		fail(c, err)
		return
	}

	message := "Answer assessed. Awaiting review."
	if turn.Completed() {
		message = "No answer submitted. Interview ended."
	}
	c.JSON(http.StatusOK, turnResponse{Turn: turn, Message: message})
}

// handleApprove accepts thread_id and action as query parameters or as a
// JSON body.
func (s *Server) handleApprove(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ThreadID == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.ThreadID == "" {
		badRequest(c, errors.New("thread_id is required"))
		return
	}

	turn, err := s.machine.Decide(c.Request.Context(), req.ThreadID, interview.Action(req.Action))
	if err != nil {
		fail(c, err)
		return
	}

	var message string
	switch {
	case turn.Completed():
		message = "Interview ended."
	case turn.Approval != nil:
		message = "Assessment rejected. Re-assessment ready for review."
	default:
		message = "Assessment approved. Next question ready."
	}
	c.JSON(http.StatusOK, turnResponse{Turn: turn, Message: message})
}

func (s *Server) handleApproval(c *gin.Context) {
	var req threadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	approval, err := s.machine.PendingApproval(c.Request.Context(), req.ThreadID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, approval)
}

func (s *Server) handleAssessment(c *gin.Context) {
	var req threadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := s.machine.Report(c.Request.Context(), req.ThreadID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.machine.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) handleEndSession(c *gin.Context) {
	id := c.Param("thread_id")
	if err := s.machine.End(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Session %s ended", id)})
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.library == nil {
		fail(c, ErrMaterialsDisabled)
		return
	}

	if s.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file is required: %w", err))
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		fail(c, err)
		return
	}

	doc, err := s.library.Index(c.Request.Context(), header.Filename, content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"material_id":    doc.ID,
		"filename":       doc.Filename,
		"chunks_created": doc.ChunkCount,
		"message":        fmt.Sprintf("Successfully indexed %d chunks from %s", doc.ChunkCount, doc.Filename),
	})
}

func (s *Server) handleListMaterials(c *gin.Context) {
	if s.library == nil {
		fail(c, ErrMaterialsDisabled)
		return
	}

	docs, err := s.library.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": docs, "count": len(docs)})
}

func (s *Server) handleDeleteMaterial(c *gin.Context) {
	if s.library == nil {
		fail(c, ErrMaterialsDisabled)
		return
	}

	id := c.Param("id")
	if err := s.library.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Material %s deleted successfully", id)})
}
