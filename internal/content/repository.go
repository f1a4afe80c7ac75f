package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"go.uber.org/zap"
)

// extension is the content file extension the store uses.
const extension = ".md"

// ErrNotFound is returned when a slug has no usable backing file. An absent
// file and an unparseable one look the same to single-item lookups.
var ErrNotFound = errors.New("content not found")

// ParseError records one content file that could not be parsed.
type ParseError struct {
	Kind Kind
	Slug string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s/%s: %v", e.Kind, e.Slug, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Repository reads typed content items from a directory-per-kind store.
// It holds no cache: every query reflects the store as it is on disk.
type Repository struct {
	root string
	log  *zap.Logger
}

func NewRepository(root string, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{root: root, log: log}
}

func (r *Repository) dir(kind Kind) string {
	return filepath.Join(r.root, string(kind))
}

// ListSlugs returns the slugs present for a kind, in store enumeration order.
// A missing directory means no content has been authored yet, not a failure;
// it yields an empty list so listing pages can render their empty states.
func (r *Repository) ListSlugs(kind Kind) ([]string, error) {
	entries, err := os.ReadDir(r.dir(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s content: %w", kind, err)
	}
	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), extension) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return slugs, nil
}

// GetBySlug reads and parses one item. Absent and unparseable files both
// come back as ErrNotFound; callers render a not-found state either way.
func GetBySlug[M any](r *Repository, kind Kind, slug string) (*Post[M], error) {
	post, err := readPost[M](r, kind, slug)
	if err != nil {
		var parseErr *ParseError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &parseErr) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetAll reads every parseable item of a kind. Malformed files are skipped
// and logged so a single bad file cannot take down a listing page.
func GetAll[M any](r *Repository, kind Kind) []Post[M] {
	posts, failed := readAll[M](r, kind)
	for _, pe := range failed {
		r.log.Warn("skipping unparseable content",
			zap.String("kind", string(pe.Kind)),
			zap.String("slug", pe.Slug),
			zap.Error(pe.Err),
		)
	}
	return posts
}

// readAll keeps the per-item failures visible so tests can assert on what
// GetAll discards.
func readAll[M any](r *Repository, kind Kind) ([]Post[M], []*ParseError) {
	slugs, err := r.ListSlugs(kind)
	if err != nil {
		r.log.Warn("listing content", zap.String("kind", string(kind)), zap.Error(err))
		return nil, nil
	}
	var posts []Post[M]
	var failed []*ParseError
	for _, slug := range slugs {
		post, err := readPost[M](r, kind, slug)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				pe = &ParseError{Kind: kind, Slug: slug, Err: err}
			}
			failed = append(failed, pe)
			continue
		}
		posts = append(posts, *post)
	}
	return posts, failed
}

func readPost[M any](r *Repository, kind Kind, slug string) (*Post[M], error) {
	path := filepath.Join(r.dir(kind), slug+extension)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta M
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, &ParseError{Kind: kind, Slug: slug, Err: err}
	}
	post := &Post[M]{
		Slug:        slug,
		Meta:        meta,
		Body:        string(body),
		ReadingTime: EstimateReadingTime(string(body)),
	}
	if d, ok := any(&post.Meta).(defaulter); ok {
		d.applyDefaults(slug)
	}
	return post, nil
}
