package content

import (
	"slices"
	"sort"
)

// Catalog answers listing and relevance queries over the blog collection.
// Draft posts are dropped at construction and the canonical order is fixed
// once: date descending, ties keeping store enumeration order, undated posts
// last. Every query preserves that order.
type Catalog struct {
	posts []Post[BlogMeta]
}

func NewCatalog(posts []Post[BlogMeta]) *Catalog {
	kept := make([]Post[BlogMeta], 0, len(posts))
	for _, p := range posts {
		if p.Meta.Draft {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		di, dj := kept[i].Meta.Date, kept[j].Meta.Date
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.After(dj.Time)
	})
	return &Catalog{posts: kept}
}

// SortedByDate returns all non-draft posts, most recent first.
func (c *Catalog) SortedByDate() []Post[BlogMeta] {
	return slices.Clone(c.posts)
}

// Featured returns up to limit posts for the featured slot. Flagged posts
// come first, most recent first; if fewer than limit are flagged, the most
// recent unflagged posts backfill the remainder so the slot is never empty
// while any post exists.
func (c *Catalog) Featured(limit int) []Post[BlogMeta] {
	if limit <= 0 {
		return nil
	}
	out := make([]Post[BlogMeta], 0, limit)
	for _, p := range c.posts {
		if p.Meta.Featured {
			out = append(out, p)
			if len(out) == limit {
				return out
			}
		}
	}
	for _, p := range c.posts {
		if !p.Meta.Featured {
			out = append(out, p)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// ByCategory filters the sorted listing to an exact category match.
func (c *Catalog) ByCategory(category string) []Post[BlogMeta] {
	var out []Post[BlogMeta]
	for _, p := range c.posts {
		if p.Meta.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ByTag filters the sorted listing to posts carrying the exact tag.
func (c *Catalog) ByTag(tag string) []Post[BlogMeta] {
	var out []Post[BlogMeta]
	for _, p := range c.posts {
		if slices.Contains(p.Meta.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns every distinct category, alphabetically.
func (c *Catalog) Categories() []string {
	set := map[string]struct{}{}
	for _, p := range c.posts {
		if p.Meta.Category != "" {
			set[p.Meta.Category] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Tags returns every distinct tag, alphabetically.
func (c *Catalog) Tags() []string {
	set := map[string]struct{}{}
	for _, p := range c.posts {
		for _, t := range p.Meta.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// RelatedTo ranks every other post against the source post: 2 points for a
// matching category plus 1 per shared tag (exact, case-sensitive). Ties keep
// the date-descending order. The result always has min(limit, otherPosts)
// entries; there is no score cutoff, so zero-score posts fill out a small
// pool rather than leaving the related section short.
func (c *Catalog) RelatedTo(slug string, limit int) []Post[BlogMeta] {
	if limit <= 0 {
		return nil
	}
	var source *Post[BlogMeta]
	for i := range c.posts {
		if c.posts[i].Slug == slug {
			source = &c.posts[i]
			break
		}
	}
	if source == nil {
		return nil
	}

	sourceTags := make(map[string]struct{}, len(source.Meta.Tags))
	for _, t := range source.Meta.Tags {
		sourceTags[t] = struct{}{}
	}

	type candidate struct {
		post  Post[BlogMeta]
		score int
	}
	var candidates []candidate
	for _, p := range c.posts {
		if p.Slug == slug {
			continue
		}
		score := 0
		if p.Meta.Category == source.Meta.Category {
			score += 2
		}
		for _, t := range p.Meta.Tags {
			if _, ok := sourceTags[t]; ok {
				score++
			}
		}
		candidates = append(candidates, candidate{post: p, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]Post[BlogMeta], 0, limit)
	for _, cand := range candidates[:limit] {
		out = append(out, cand.post)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
