package cmd

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/config"
	"github.com/mwellsmd/praxis/internal/content"
	"github.com/mwellsmd/praxis/internal/model"
)

const (
	baseLayout     = "base.html"
	partialsSubdir = "partials"
	displayDate    = "January 2, 2006"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from content, layouts, and static assets",
	Long: `The build command reads markdown content (blog posts, guides, locations),
renders it through the layouts in the layouts directory, copies static assets,
and writes the site to the configured output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(appConfig, log)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

type builder struct {
	cfg       config.Config
	log       *zap.Logger
	repo      *content.Repository
	markdown  goldmark.Markdown
	templates *template.Template
	site      *model.SiteData
}

func runBuild(cfg config.Config, log *zap.Logger) error {
	b := &builder{
		cfg:  cfg,
		log:  log,
		repo: content.NewRepository(cfg.ContentDir, log),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}

	if _, err := os.Stat(cfg.LayoutsDir); os.IsNotExist(err) {
		return fmt.Errorf("layouts directory %q not found, create it and add your .html layout files", cfg.LayoutsDir)
	}
	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		// Not fatal: the site renders its empty states until content exists.
		log.Warn("content directory not found, building an empty site", zap.String("dir", cfg.ContentDir))
	}

	log.Info("preparing output directory", zap.String("dir", cfg.OutputDir))
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("remove output directory %q: %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("create output directory %q: %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); !os.IsNotExist(err) {
		if err := copyDirContents(cfg.StaticDir, cfg.OutputDir); err != nil {
			return fmt.Errorf("copy static assets: %w", err)
		}
		log.Info("static assets copied", zap.String("from", cfg.StaticDir))
	}

	if err := b.parseLayouts(); err != nil {
		return err
	}
	b.loadContent()

	if err := b.renderPosts(); err != nil {
		return err
	}
	if err := b.renderGuides(); err != nil {
		return err
	}
	if err := b.renderLocations(); err != nil {
		return err
	}
	if err := b.renderListing("blog.html", filepath.Join("blog", "index.html")); err != nil {
		return err
	}
	if err := b.renderListing("home.html", "index.html"); err != nil {
		return err
	}

	log.Info("build complete",
		zap.Int("posts", len(b.site.Posts)),
		zap.Int("guides", len(b.site.Guides)),
		zap.Int("locations", len(b.site.Locations)),
	)
	return nil
}

// parseLayouts loads base.html and the partials first, then the page layouts,
// so page templates can reference the shared definitions.
func (b *builder) parseLayouts() error {
	var layoutFiles []string
	err := filepath.WalkDir(b.cfg.LayoutsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			layoutFiles = append(layoutFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("find layout files in %q: %w", b.cfg.LayoutsDir, err)
	}

	var basePath string
	var partials []string
	var pages []string
	for _, f := range layoutFiles {
		switch {
		case filepath.Base(f) == baseLayout && filepath.Dir(f) == b.cfg.LayoutsDir:
			basePath = f
		case strings.HasPrefix(filepath.Dir(f), filepath.Join(b.cfg.LayoutsDir, partialsSubdir)):
			partials = append(partials, f)
		default:
			pages = append(pages, f)
		}
	}
	if basePath == "" {
		return fmt.Errorf("%s not found in layouts directory %q", baseLayout, b.cfg.LayoutsDir)
	}

	templates, err := template.ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return fmt.Errorf("parse %s and partials: %w", baseLayout, err)
	}
	if len(pages) > 0 {
		templates, err = templates.ParseFiles(pages...)
		if err != nil {
			return fmt.Errorf("parse page layouts: %w", err)
		}
	}
	b.templates = templates
	b.log.Info("layouts parsed", zap.Int("files", len(layoutFiles)))
	return nil
}

func (b *builder) loadContent() {
	catalog := content.NewCatalog(content.GetAll[content.BlogMeta](b.repo, content.KindBlog))
	b.site = &model.SiteData{
		Title:      b.cfg.SiteTitle,
		BaseURL:    b.cfg.BaseURL,
		Posts:      catalog.SortedByDate(),
		Featured:   catalog.Featured(3),
		Guides:     content.GetAll[content.GuideMeta](b.repo, content.KindGuide),
		Locations:  content.GetAll[content.LocationMeta](b.repo, content.KindLocation),
		Categories: catalog.Categories(),
		Tags:       catalog.Tags(),
	}
}

func (b *builder) renderPosts() error {
	for _, post := range b.site.Posts {
		html, err := b.renderMarkdown(post.Body)
		if err != nil {
			return fmt.Errorf("render post %q: %w", post.Slug, err)
		}
		page := model.PageData{
			Site:        b.site,
			Title:       post.Meta.Title,
			Description: post.Meta.Description,
			Content:     html,
			Headings:    content.ExtractHeadings(post.Body),
			ReadingTime: post.ReadingTime,
			Permalink:   "/blog/" + post.Slug + "/",
			Author:      post.Meta.Author,
			Tags:        post.Meta.Tags,
			Category:    post.Meta.Category,
		}
		if !post.Meta.Date.IsZero() {
			page.Date = post.Meta.Date.Format(displayDate)
		}
		if err := b.writePage(page, "post.html"); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) renderGuides() error {
	for _, guide := range b.site.Guides {
		html, err := b.renderMarkdown(guide.Body)
		if err != nil {
			return fmt.Errorf("render guide %q: %w", guide.Slug, err)
		}
		page := model.PageData{
			Site:        b.site,
			Title:       guide.Meta.Title,
			Description: guide.Meta.Description,
			Content:     html,
			ReadingTime: guide.ReadingTime,
			Permalink:   "/guides/" + guide.Slug + "/",
			Author:      guide.Meta.Author,
		}
		if guide.Meta.ShowTOC {
			page.Headings = content.ExtractHeadings(guide.Body)
		}
		if !guide.Meta.LastUpdated.IsZero() {
			page.Date = guide.Meta.LastUpdated.Format(displayDate)
		}
		if err := b.writePage(page, "guide.html"); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) renderLocations() error {
	for _, location := range b.site.Locations {
		html, err := b.renderMarkdown(location.Body)
		if err != nil {
			return fmt.Errorf("render location %q: %w", location.Slug, err)
		}
		page := model.PageData{
			Site:        b.site,
			Title:       location.Meta.Title,
			Description: location.Meta.Description,
			Content:     html,
			Permalink:   "/locations/" + location.Slug + "/",
		}
		if err := b.writePage(page, "location.html"); err != nil {
			return err
		}
	}
	return nil
}

// renderListing writes a listing page when its layout exists; a missing
// listing layout is skipped, not fatal.
func (b *builder) renderListing(layout, outPath string) error {
	if b.templates.Lookup(layout) == nil {
		b.log.Warn("listing layout not found, skipping", zap.String("layout", layout))
		return nil
	}
	fullPath := filepath.Join(b.cfg.OutputDir, outPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %q: %w", outPath, err)
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", fullPath, err)
	}
	defer out.Close()

	data := model.PageData{Site: b.site, Title: b.cfg.SiteTitle}
	if err := b.templates.ExecuteTemplate(out, layout, data); err != nil {
		return fmt.Errorf("execute layout %q: %w", layout, err)
	}
	b.log.Info("generated", zap.String("path", fullPath), zap.String("layout", layout))
	return nil
}

func (b *builder) renderMarkdown(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// writePage renders one content page at <output>/<permalink>/index.html,
// falling back from the kind-specific layout to single.html to base.html.
func (b *builder) writePage(page model.PageData, preferredLayout string) error {
	layout := b.lookupLayout(preferredLayout, "single.html", baseLayout)
	if layout == "" {
		return fmt.Errorf("no layout found for %q, not even %s", page.Permalink, baseLayout)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, page.Permalink, "index.html")
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %q: %w", page.Permalink, err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", outputPath, err)
	}
	defer out.Close()

	if err := b.templates.ExecuteTemplate(out, layout, page); err != nil {
		return fmt.Errorf("execute layout %q for %q: %w", layout, page.Permalink, err)
	}
	b.log.Debug("generated", zap.String("path", outputPath), zap.String("layout", layout))
	return nil
}

func (b *builder) lookupLayout(names ...string) string {
	for _, name := range names {
		if b.templates.Lookup(name) != nil {
			return name
		}
	}
	return ""
}

// copyDirContents recursively copies contents from src to dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("create directory %s: %w", dstPath, err)
			}
			return nil
		}
		return copyFile(path, dstPath)
	})
}

// copyFile copies a single file, preserving its mode where possible.
func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(dstFile), err)
	}
	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcFile, dstFile, err)
	}

	if info, err := os.Stat(srcFile); err == nil {
		_ = os.Chmod(dstFile, info.Mode())
	}
	return nil
}
