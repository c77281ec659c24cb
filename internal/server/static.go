package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the built board frontend from staticDir. Any GET the API
// does not own falls through to index.html.
func (s *Server) mountStatic() {
	if s.staticDir == "" {
		s.logger.Warn("no static directory configured, serving the API only")
		return
	}

	index := filepath.Join(s.staticDir, "index.html")
	if !isFile(index) {
		s.logger.Warn("board frontend not found", "index", index)
		return
	}

	if assets := filepath.Join(s.staticDir, "assets"); isDir(assets) {
		s.engine.StaticFS("/assets", gin.Dir(assets, false))
	}
	if favicon := filepath.Join(s.staticDir, "favicon.ico"); isFile(favicon) {
		s.engine.StaticFile("/favicon.ico", favicon)
	}

	s.engine.GET("/", func(c *gin.Context) { c.File(index) })
	s.engine.NoRoute(spaFallback(index))
}

// spaFallback answers unknown API paths with JSON and everything else with
// the frontend entry point.
func spaFallback(index string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(index)
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
