package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/content"
)

// defaultListLimit bounds featured and related responses when the caller
// doesn't say.
const defaultListLimit = 3

// catalog builds the query view over the blog collection as it currently is
// on disk.
func (s *Server) catalog() *content.Catalog {
	return content.NewCatalog(content.GetAll[content.BlogMeta](s.repo, content.KindBlog))
}

func (s *Server) listPosts(c *gin.Context) {
	cat := s.catalog()
	var posts []content.Post[content.BlogMeta]
	switch {
	case c.Query("category") != "":
		posts = cat.ByCategory(c.Query("category"))
	case c.Query("tag") != "":
		posts = cat.ByTag(c.Query("tag"))
	default:
		posts = cat.SortedByDate()
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

func (s *Server) featuredPosts(c *gin.Context) {
	posts := s.catalog().Featured(limitParam(c))
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

func (s *Server) getPost(c *gin.Context) {
	slug := c.Param("slug")
	post, err := content.GetBySlug[content.BlogMeta](s.repo, content.KindBlog, slug)
	if err != nil {
		s.notFoundOr500(c, err, "post not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"body":     post.Body,
		"headings": content.ExtractHeadings(post.Body),
	})
}

func (s *Server) relatedPosts(c *gin.Context) {
	slug := c.Param("slug")
	cat := s.catalog()
	related := cat.RelatedTo(slug, limitParam(c))
	c.JSON(http.StatusOK, gin.H{"posts": related, "count": len(related)})
}

func (s *Server) listTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": s.catalog().Tags()})
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.catalog().Categories()})
}

func (s *Server) listGuides(c *gin.Context) {
	guides := content.GetAll[content.GuideMeta](s.repo, content.KindGuide)
	c.JSON(http.StatusOK, gin.H{"guides": guides, "count": len(guides)})
}

func (s *Server) getGuide(c *gin.Context) {
	slug := c.Param("slug")
	guide, err := content.GetBySlug[content.GuideMeta](s.repo, content.KindGuide, slug)
	if err != nil {
		s.notFoundOr500(c, err, "guide not found")
		return
	}
	resp := gin.H{"guide": guide, "body": guide.Body}
	if guide.Meta.ShowTOC {
		resp["headings"] = content.ExtractHeadings(guide.Body)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listLocations(c *gin.Context) {
	locations := content.GetAll[content.LocationMeta](s.repo, content.KindLocation)
	c.JSON(http.StatusOK, gin.H{"locations": locations, "count": len(locations)})
}

func (s *Server) getLocation(c *gin.Context) {
	slug := c.Param("slug")
	location, err := content.GetBySlug[content.LocationMeta](s.repo, content.KindLocation, slug)
	if err != nil {
		s.notFoundOr500(c, err, "location not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location, "body": location.Body})
}

func (s *Server) notFoundOr500(c *gin.Context, err error, msg string) {
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	s.log.Error("reading content", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 0 {
		return defaultListLimit
	}
	return limit
}
