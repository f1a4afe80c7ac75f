package model

import (
	"html/template"

	"github.com/mwellsmd/praxis/internal/content"
)

// PageData is the payload for a single rendered page.
type PageData struct {
	Site        *SiteData
	Title       string
	Description string
	Content     template.HTML
	Headings    []content.Heading
	ReadingTime content.ReadingTime
	Permalink   string
	Date        string
	Author      string
	Tags        []string
	Category    string
}
