package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban/internal/board"
	"kanban/internal/models"
)

// Server provides HTTP handlers for the Kanban board.
type Server struct {
	engine    *gin.Engine
	board     *board.Board
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(b *board.Board, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine:    router,
		board:     b,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		api.GET("/board", s.handleBoard)
		api.GET("/board/stream", s.handleBoardStream)
		api.POST("/drop", s.handleDrop)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":id", s.handleGetTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
			tasks.POST(":id/status", s.handleChangeStatus)
		}

		editor := api.Group("/editor")
		{
			editor.GET("", s.handleEditor)
			editor.POST("/create", s.handleEditorCreate)
			editor.POST("/edit/:id", s.handleEditorEdit)
			editor.POST("/save", s.handleEditorSave)
			editor.POST("/close", s.handleEditorClose)
			editor.POST("/delete/:id", s.handleEditorDelete)
			editor.POST("/confirm", s.handleEditorConfirm)
		}
	}

	s.mountStatic()
}

// requestLogger logs API requests through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.FullPath() == "" || c.FullPath() == "/api/board/stream" {
			return
		}
		logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()))
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondMutationError maps controller errors to HTTP statuses.
func (s *Server) respondMutationError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, board.ErrNoPendingDelete), errors.Is(err, board.ErrDeletePending):
		s.respondError(c, http.StatusConflict, err)
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
