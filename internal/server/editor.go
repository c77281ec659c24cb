package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (s *Server) handleEditor(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"surface": s.board.Controller().Surface()})
}

func (s *Server) handleEditorCreate(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"surface": s.board.Controller().BeginCreate()})
}

// handleEditorEdit opens the form for a task, or a blank one if it is gone.
func (s *Server) handleEditorEdit(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"surface": s.board.Controller().BeginEdit(c.Param("id"))})
}

// handleEditorSave commits the form. The surface stays open on validation errors.
func (s *Server) handleEditorSave(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	ctrl := s.board.Controller()
	id, err := ctrl.Save(c.Request.Context(), req.apply(ctrl.Surface().Draft))
	if err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id, "surface": ctrl.Surface()})
}

func (s *Server) handleEditorClose(c *gin.Context) {
	ctrl := s.board.Controller()
	ctrl.Close()
	respondSuccess(c, http.StatusOK, gin.H{"surface": ctrl.Surface()})
}

// handleEditorDelete asks for confirmation before deleting a task.
func (s *Server) handleEditorDelete(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"surface": s.board.Controller().RequestDelete(c.Param("id"))})
}

// handleEditorConfirm answers the pending delete confirmation.
func (s *Server) handleEditorConfirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	ctrl := s.board.Controller()
	if err := ctrl.ResolveDelete(c.Request.Context(), req.Confirmed); err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": req.Confirmed, "surface": ctrl.Surface()})
}
