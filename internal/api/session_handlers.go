package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/interest"
)

// sessionCookie names the visitor-id cookie.
const sessionCookie = "praxis_sid"

// sessionCookieMaxAge keeps the visitor id for a year; interest state is
// meant to accumulate across sessions.
const sessionCookieMaxAge = 365 * 24 * 60 * 60

// visitorID reads the visitor cookie, issuing a fresh id when absent.
func (s *Server) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}

func (s *Server) getSession(c *gin.Context) {
	id := s.visitorID(c)
	state := s.tracker.Get(id)
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"cta":   interest.PersonalizedCTA(state, s.tracker.Profile()),
	})
}

type visitRequest struct {
	Path string `json:"path"`
}

func (s *Server) visitPage(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	s.applyAction(c, interest.VisitPage{Path: req.Path})
}

type timeRequest struct {
	Path    string `json:"path"`
	Seconds int    `json:"seconds"`
}

func (s *Server) updateTime(c *gin.Context) {
	var req timeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if req.Seconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seconds must not be negative"})
		return
	}
	s.applyAction(c, interest.UpdateTime{Path: req.Path, Seconds: req.Seconds})
}

type interestRequest struct {
	Tag string `json:"tag"`
}

func (s *Server) addInterest(c *gin.Context) {
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag is required"})
		return
	}
	s.applyAction(c, interest.AddInterest{Tag: req.Tag})
}

func (s *Server) applyAction(c *gin.Context, action interest.Action) {
	id := s.visitorID(c)
	state, err := s.tracker.Apply(id, action)
	if err != nil {
		s.log.Error("applying interest action", zap.String("visitor", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"cta":   interest.PersonalizedCTA(state, s.tracker.Profile()),
	})
}
