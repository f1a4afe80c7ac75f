// Package model holds the view model handed to layout templates during a
// static build.
package model

import (
	"github.com/mwellsmd/praxis/internal/content"
)

// SiteData is the root object every layout can reach: site identity plus the
// full, already-ordered content collections.
type SiteData struct {
	Title      string
	BaseURL    string
	Posts      []content.Post[content.BlogMeta]
	Featured   []content.Post[content.BlogMeta]
	Guides     []content.Post[content.GuideMeta]
	Locations  []content.Post[content.LocationMeta]
	Categories []string
	Tags       []string
}
