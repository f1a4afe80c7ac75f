package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/api"
	"github.com/mwellsmd/praxis/internal/content"
	"github.com/mwellsmd/praxis/internal/interest"
)

type memStore struct {
	data map[string][]byte
}

func (m *memStore) Load(id string) ([]byte, error) { return m.data[id], nil }

func (m *memStore) Save(id string, data []byte) error {
	m.data[id] = data
	return nil
}

func writePost(t *testing.T, root, kind, slug, frontmatter, body string) {
	t.Helper()
	dir := filepath.Join(root, kind)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data := "---\n" + strings.TrimSpace(frontmatter) + "\n---\n\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".md"), []byte(data), 0o644))
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	writePost(t, root, "blog", "dmek-explained", `
title: DMEK Explained
date: 2024-03-01
category: Cornea
tags: [DMEK, Fuchs]
featured: true
`, "## How It Works\n\nBody text.\n")
	writePost(t, root, "blog", "fuchs-dystrophy", `
title: Fuchs Dystrophy
date: 2024-02-01
category: Cornea
tags: [Fuchs]
`, "Body.\n")
	writePost(t, root, "blog", "lasik-basics", `
title: LASIK Basics
date: 2024-01-01
category: Vision
tags: [LASIK]
`, "Body.\n")
	writePost(t, root, "blog", "hidden-draft", `
title: Hidden
date: 2024-06-01
draft: true
`, "Body.\n")
	writePost(t, root, "guides", "dry-eye-guide", `
title: Dry Eye Guide
showToc: true
`, "## Symptoms\n\n## Treatment\n\nBody.\n")

	repo := content.NewRepository(root, zap.NewNop())
	tracker := interest.NewTracker(&memStore{data: map[string][]byte{}}, nil, zap.NewNop())
	return api.New(repo, tracker, "", zap.NewNop()).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type postsResponse struct {
	Posts []struct {
		Slug string `json:"slug"`
		Meta struct {
			Title    string   `json:"title"`
			Category string   `json:"category"`
			Tags     []string `json:"tags"`
		} `json:"meta"`
	} `json:"posts"`
	Count int `json:"count"`
}

func postSlugs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp postsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	slugs := make([]string, len(resp.Posts))
	for i, p := range resp.Posts {
		slugs[i] = p.Slug
	}
	return slugs
}

func TestHealthz(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListPostsSortedAndDraftFree(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"dmek-explained", "fuchs-dystrophy", "lasik-basics"}, postSlugs(t, rec))
}

func TestListPostsByCategory(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts?category=Cornea", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"dmek-explained", "fuchs-dystrophy"}, postSlugs(t, rec))
}

func TestListPostsByTag(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts?tag=LASIK", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"lasik-basics"}, postSlugs(t, rec))
}

func TestFeaturedBackfills(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts/featured?limit=2", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// One flagged post, backfilled by the most recent unflagged one.
	assert.Equal(t, []string{"dmek-explained", "fuchs-dystrophy"}, postSlugs(t, rec))
}

func TestGetPostWithHeadings(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts/dmek-explained", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Headings []content.Heading `json:"headings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []content.Heading{{ID: "how-it-works", Text: "How It Works", Level: 2}}, resp.Headings)
}

func TestGetPostNotFound(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRelatedPostsScoring(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts/dmek-explained/related?limit=2", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// Shared category + tag beats no overlap; zero-score post still fills
	// the requested count.
	assert.Equal(t, []string{"fuchs-dystrophy", "lasik-basics"}, postSlugs(t, rec))
}

func TestTagsAndCategories(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tags struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	assert.Equal(t, []string{"DMEK", "Fuchs", "LASIK"}, tags.Tags)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Equal(t, []string{"Cornea", "Vision"}, cats.Categories)
}

func TestGetGuideIncludesTOC(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/guides/dry-eye-guide", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Headings []content.Heading `json:"headings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Headings, 2)
}

type sessionResponse struct {
	State interest.State `json:"state"`
	CTA   string         `json:"cta"`
}

func TestSessionVisitAccumulates(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/session/visit", `{"path":"/services/cornea"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var first sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, 1, first.State.VisitCount)
	assert.Contains(t, first.State.InferredInterests, "DMEK")
	assert.Equal(t, interest.DefaultProfile().CornealCTA, first.CTA)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/session/visit", `{"path":"/services/cornea"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var second sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, 2, second.State.VisitCount)
	assert.Equal(t, []string{"/services/cornea"}, second.State.PagesVisited)
}

func TestSessionVisitRequiresPath(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/session/visit", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionTimeAndInterest(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/session/time", `{"path":"/blog","seconds":30}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()

	rec = doJSON(t, router, http.MethodPost, "/api/v1/session/interest", `{"tag":"LASIK"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/session", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.State.TimeOnPages["/blog"])
	assert.Equal(t, []string{"LASIK"}, resp.State.InferredInterests)
	assert.Equal(t, interest.DefaultProfile().VisionCTA, resp.CTA)
}

func TestSessionTimeRejectsNegative(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/session/time", `{"path":"/blog","seconds":-5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyStoreListsAreEmptyNotErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := content.NewRepository(t.TempDir(), zap.NewNop())
	tracker := interest.NewTracker(&memStore{data: map[string][]byte{}}, nil, zap.NewNop())
	router := api.New(repo, tracker, "", zap.NewNop()).Router()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, postSlugs(t, rec))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/posts/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, postSlugs(t, rec))
}
