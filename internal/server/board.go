package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/internal/board"
	"kanban/internal/models"
)

type dropRequest struct {
	ID           string        `json:"id"`
	SourceStatus models.Status `json:"source_status"`
	TargetStatus models.Status `json:"target_status"`
}

func boardPayload(c *board.Collection) gin.H {
	return gin.H{"board": c.View(), "version": c.Version()}
}

// handleBoard returns the grouped columns of the live collection.
func (s *Server) handleBoard(c *gin.Context) {
	respondSuccess(c, http.StatusOK, boardPayload(s.board.State().Current()))
}

// handleBoardStream pushes the board as server-sent events, once on connect
// and again whenever a snapshot is applied.
func (s *Server) handleBoardStream(c *gin.Context) {
	changes, stop := s.board.State().Watch()
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("board", boardPayload(s.board.State().Current()))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case col, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("board", boardPayload(col))
			return true
		}
	})
}

// handleDrop moves a card dropped onto a column.
func (s *Server) handleDrop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ID == "" {
		s.respondError(c, http.StatusBadRequest, errors.New("id is required"))
		return
	}

	transfer := board.Transfer{ID: req.ID, SourceStatus: req.SourceStatus}
	if err := s.board.Coordinator().Drop(c.Request.Context(), transfer, req.TargetStatus); err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusAccepted, gin.H{"status": "accepted"})
}
