// Package interest tracks what a visitor has looked at and derives a small
// personalization model from it: inferred interest tags, recommended reading,
// and a call-to-action label. State changes go through a pure reducer and are
// persisted through an injected store after every transition.
package interest

import (
	"maps"
	"slices"
)

// Recommendation is one entry of the recommendation catalog.
type Recommendation struct {
	Title       string `json:"title" yaml:"title"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// State is the persisted per-visitor record. It only ever grows: pages and
// interests accumulate across sessions and nothing removes them.
type State struct {
	PagesVisited       []string         `json:"pagesVisited"`
	TimeOnPages        map[string]int   `json:"timeOnPages"`
	InferredInterests  []string         `json:"inferredInterests"`
	RecommendedContent []Recommendation `json:"recommendedContent"`
	VisitCount         int              `json:"visitCount"`
	LastVisit          string           `json:"lastVisit,omitempty"`
	CurrentPage        string           `json:"currentPage,omitempty"`
}

// NewState returns the empty default used for first-time visitors and for
// recovery from corrupt persisted data.
func NewState() State {
	return State{TimeOnPages: map[string]int{}}
}

// clone copies the state so the reducer never aliases its input.
func (s State) clone() State {
	next := s
	next.PagesVisited = slices.Clone(s.PagesVisited)
	next.InferredInterests = slices.Clone(s.InferredInterests)
	next.RecommendedContent = slices.Clone(s.RecommendedContent)
	if s.TimeOnPages == nil {
		next.TimeOnPages = map[string]int{}
	} else {
		next.TimeOnPages = maps.Clone(s.TimeOnPages)
	}
	return next
}
