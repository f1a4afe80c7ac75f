// Package api exposes the content queries and the interest tracker over HTTP,
// and serves the built static site behind them.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/content"
	"github.com/mwellsmd/praxis/internal/interest"
)

// Server wires the repository and tracker into a gin router.
type Server struct {
	repo      *content.Repository
	tracker   *interest.Tracker
	staticDir string
	log       *zap.Logger
}

func New(repo *content.Repository, tracker *interest.Tracker, staticDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{repo: repo, tracker: tracker, staticDir: staticDir, log: log}
}

// Router builds the route table. Content handlers re-read the store on every
// request; there is no cache to invalidate, the filesystem is the truth.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	v1 := r.Group("/api/v1")
	v1.GET("/healthz", s.health)

	v1.GET("/posts", s.listPosts)
	v1.GET("/posts/featured", s.featuredPosts)
	v1.GET("/posts/:slug", s.getPost)
	v1.GET("/posts/:slug/related", s.relatedPosts)
	v1.GET("/tags", s.listTags)
	v1.GET("/categories", s.listCategories)

	v1.GET("/guides", s.listGuides)
	v1.GET("/guides/:slug", s.getGuide)
	v1.GET("/locations", s.listLocations)
	v1.GET("/locations/:slug", s.getLocation)

	sess := v1.Group("/session")
	sess.GET("", s.getSession)
	sess.POST("/visit", s.visitPage)
	sess.POST("/time", s.updateTime)
	sess.POST("/interest", s.addInterest)

	if s.staticDir != "" {
		r.NoRoute(s.serveSite)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// serveSite serves the built output directory with caching disabled, so a
// rebuild is visible on the next request. Directory URLs without an
// index.html 404 instead of listing.
func (s *Server) serveSite(c *gin.Context) {
	urlPath := c.Request.URL.Path
	if strings.HasSuffix(urlPath, "/") && urlPath != "/" {
		if _, err := os.Stat(filepath.Join(s.staticDir, urlPath, "index.html")); os.IsNotExist(err) {
			c.Status(http.StatusNotFound)
			return
		}
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	http.FileServer(http.Dir(s.staticDir)).ServeHTTP(c.Writer, c.Request)
}
