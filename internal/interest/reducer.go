package interest

import (
	"slices"
	"time"
)

// Action is a state transition. Every action is a total function over the
// state shape: transitions cannot fail, only produce a new state.
type Action interface {
	apply(s State, p *Profile) State
}

// VisitPage records a page view. Repeat visits to the same path still bump
// the visit counter but the path itself is only recorded once. Now may be
// zero, in which case the wall clock is used.
type VisitPage struct {
	Path string
	Now  time.Time
}

// UpdateTime adds to the cumulative seconds spent on a path.
type UpdateTime struct {
	Path    string
	Seconds int
}

// AddInterest records an explicit interest tag. Idempotent.
type AddInterest struct {
	Tag string
}

// Reduce applies an action to a state and returns the next state. It is pure:
// the input state is never modified.
func Reduce(s State, a Action, p *Profile) State {
	return a.apply(s, p)
}

func (a VisitPage) apply(s State, p *Profile) State {
	next := s.clone()
	if !slices.Contains(next.PagesVisited, a.Path) {
		next.PagesVisited = append(next.PagesVisited, a.Path)
	}
	next.CurrentPage = a.Path
	next.VisitCount++
	now := a.Now
	if now.IsZero() {
		now = time.Now()
	}
	next.LastVisit = now.UTC().Format(time.RFC3339)
	if addInterests(&next, p.PathInterests[a.Path]) {
		next.RecommendedContent = p.Recommend(next.InferredInterests)
	}
	return next
}

func (a UpdateTime) apply(s State, _ *Profile) State {
	next := s.clone()
	next.TimeOnPages[a.Path] += a.Seconds
	return next
}

func (a AddInterest) apply(s State, p *Profile) State {
	next := s.clone()
	if addInterests(&next, []string{a.Tag}) {
		next.RecommendedContent = p.Recommend(next.InferredInterests)
	}
	return next
}

// addInterests unions tags into the state's interests and reports whether
// anything changed. Recommendations are only recomputed on change.
func addInterests(s *State, tags []string) bool {
	changed := false
	for _, tag := range tags {
		if !slices.Contains(s.InferredInterests, tag) {
			s.InferredInterests = append(s.InferredInterests, tag)
			changed = true
		}
	}
	return changed
}
