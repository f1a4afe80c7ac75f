package content

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind names a content collection. Each kind maps to one directory under the
// content root, with one markdown file per item.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindGuide    Kind = "guides"
	KindLocation Kind = "locations"
)

// dateFormats are the timestamp shapes authors actually put in frontmatter,
// tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a frontmatter timestamp that accepts the formats in dateFormats.
// The zero value means "no date"; undated items sort after dated ones.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", raw)
}

// BlogMeta is the frontmatter schema for blog posts.
type BlogMeta struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Date        Date     `yaml:"date" json:"date"`
	Author      string   `yaml:"author" json:"author"`
	Tags        []string `yaml:"tags" json:"tags"`
	Category    string   `yaml:"category" json:"category"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	ImageAlt    string   `yaml:"imageAlt" json:"imageAlt,omitempty"`
	Featured    bool     `yaml:"featured" json:"featured"`
	Draft       bool     `yaml:"draft" json:"draft"`
}

// GuideMeta is the frontmatter schema for patient guides.
type GuideMeta struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	LastUpdated       Date     `yaml:"lastUpdated" json:"lastUpdated"`
	Author            string   `yaml:"author" json:"author"`
	TargetKeywords    []string `yaml:"targetKeywords" json:"targetKeywords,omitempty"`
	RelatedProcedures []string `yaml:"relatedProcedures" json:"relatedProcedures,omitempty"`
	ShowTOC           bool     `yaml:"showToc" json:"showToc"`
}

// LocationMeta is the frontmatter schema for office location pages.
type LocationMeta struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	City        string   `yaml:"city" json:"city"`
	Address     string   `yaml:"address" json:"address"`
	Phone       string   `yaml:"phone" json:"phone"`
	Services    []string `yaml:"services" json:"services,omitempty"`
}

// Post is a parsed content item of one kind. M is the kind's frontmatter
// schema, so callers get typed field access instead of a generic map.
type Post[M any] struct {
	Slug        string      `json:"slug"`
	Meta        M           `json:"meta"`
	Body        string      `json:"-"`
	ReadingTime ReadingTime `json:"readingTime"`
}

// defaulter lets a schema fill derived fields after parsing.
type defaulter interface {
	applyDefaults(slug string)
}

func (m *BlogMeta) applyDefaults(slug string) {
	if m.Title == "" {
		m.Title = TitleFromSlug(slug)
	}
}

func (m *GuideMeta) applyDefaults(slug string) {
	if m.Title == "" {
		m.Title = TitleFromSlug(slug)
	}
}

func (m *LocationMeta) applyDefaults(slug string) {
	if m.Title == "" {
		m.Title = TitleFromSlug(slug)
	}
}

// TitleFromSlug turns "corneal-transplant-recovery" into
// "Corneal Transplant Recovery", the fallback title for items whose
// frontmatter omits one. A Caser is stateful, so one is built per call.
func TitleFromSlug(slug string) string {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.English).String(cleaned)
}
