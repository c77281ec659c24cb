package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kanban/internal/models"
)

// taskRequest is a task form. Omitted values keep the draft's value.
type taskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *models.Status   `json:"status"`
	Date        *time.Time       `json:"date"`
	Priority    *models.Priority `json:"priority"`
}

// apply lays the submitted values over base.
func (r taskRequest) apply(base models.Fields) models.Fields {
	if r.Title != nil {
		base.Title = *r.Title
	}
	if r.Description != nil {
		base.Description = *r.Description
	}
	if r.Status != nil {
		base.Status = *r.Status
	}
	if r.Date != nil {
		base.Date = *r.Date
	}
	if r.Priority != nil {
		base.Priority = *r.Priority
	}
	return base
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

// handleListTasks returns the tasks in store order.
func (s *Server) handleListTasks(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"tasks": s.board.State().Current().Tasks()})
}

// handleGetTask returns a single task from the live collection.
func (s *Server) handleGetTask(c *gin.Context) {
	task, ok := s.board.State().Current().Get(c.Param("id"))
	if !ok {
		s.respondError(c, http.StatusNotFound, errors.New("task not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCreateTask creates a task from the submitted form and the defaults.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	fields := req.apply(models.DefaultFields(time.Now()))
	id, err := s.board.Controller().Write(c.Request.Context(), fields, "")
	if err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"id": id})
}

// handleUpdateTask overwrites a task with its current fields and the form.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	base := models.DefaultFields(time.Now())
	if task, ok := s.board.State().Current().Get(id); ok {
		base = task.Fields
	}

	if _, err := s.board.Controller().Write(c.Request.Context(), req.apply(base), id); err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id})
}

// handleChangeStatus moves a task through the status menu.
func (s *Server) handleChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.board.Controller().ChangeStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		s.respondMutationError(c, err)
		return
	}
	respondSuccess(c, http.StatusAccepted, gin.H{"status": "accepted"})
}

// handleDeleteTask removes a task once the caller confirms with confirm=true.
func (s *Server) handleDeleteTask(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	err := s.board.Controller().Delete(c.Request.Context(), c.Param("id"), func(string) bool {
		return confirmed
	})
	if err != nil {
		s.respondMutationError(c, err)
		return
	}
	if !confirmed {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Are you sure you want to delete this task? Repeat with confirm=true"})
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
