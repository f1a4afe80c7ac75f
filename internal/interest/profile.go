package interest

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds the static tables the tracker derives everything from: which
// interest tags a page visit implies, the recommendation catalog, and the CTA
// rules. The built-in defaults describe the practice site; a YAML file can
// override any section wholesale.
type Profile struct {
	PathInterests map[string][]string `yaml:"pathInterests"`
	Catalog       []Recommendation    `yaml:"catalog"`
	CornealTags   []string            `yaml:"cornealTags"`
	VisionTags    []string            `yaml:"visionTags"`
	CornealCTA    string              `yaml:"cornealCTA"`
	VisionCTA     string              `yaml:"visionCTA"`
	EngagedCTA    string              `yaml:"engagedCTA"`
	DefaultCTA    string              `yaml:"defaultCTA"`
}

// fallbackRecommendations is how many catalog entries are shown when no
// interest matches anything.
const fallbackRecommendations = 3

// engagedVisitThreshold is the visit count beyond which a visitor counts as
// highly engaged for CTA purposes.
const engagedVisitThreshold = 3

func DefaultProfile() *Profile {
	return &Profile{
		PathInterests: map[string][]string{
			"/services/cornea":      {"cornea", "DMEK", "DSAEK", "corneal transplant"},
			"/services/cataract":    {"cataract", "premium lens"},
			"/services/lasik":       {"LASIK", "PRK", "vision correction"},
			"/services/keratoconus": {"keratoconus", "cross-linking", "cornea"},
			"/about":                {"physician"},
			"/blog":                 {"education"},
		},
		Catalog: []Recommendation{
			{Title: "DMEK vs. DSAEK: Choosing a Corneal Transplant", Path: "/blog/dmek-vs-dsaek"},
			{Title: "Understanding Fuchs' Dystrophy", Path: "/blog/understanding-fuchs-dystrophy"},
			{Title: "Life After Cataract Surgery", Path: "/blog/life-after-cataract-surgery"},
			{Title: "Is LASIK Right for You?", Path: "/blog/is-lasik-right-for-you"},
			{Title: "Keratoconus Treatment Options", Path: "/blog/keratoconus-treatment-options"},
		},
		CornealTags: []string{"cornea", "DMEK", "DSAEK", "Fuchs", "corneal transplant", "keratoconus"},
		VisionTags:  []string{"LASIK", "PRK", "ICL", "vision correction"},
		CornealCTA:  "Schedule a corneal consultation",
		VisionCTA:   "Find out if LASIK is right for you",
		EngagedCTA:  "Ready to take the next step? Book a visit",
		DefaultCTA:  "Request an appointment",
	}
}

// LoadProfile reads a YAML override file on top of the defaults. Sections
// absent from the file keep their default values.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	profile := DefaultProfile()
	if err := yaml.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

// Recommend filters the catalog to entries whose title contains any inferred
// interest, case-insensitively. When nothing matches the first few catalog
// entries stand in, so the recommendation slot is never empty.
func (p *Profile) Recommend(interests []string) []Recommendation {
	var out []Recommendation
	for _, rec := range p.Catalog {
		title := strings.ToLower(rec.Title)
		for _, tag := range interests {
			if strings.Contains(title, strings.ToLower(tag)) {
				out = append(out, rec)
				break
			}
		}
	}
	if len(out) == 0 {
		n := min(fallbackRecommendations, len(p.Catalog))
		out = slices.Clone(p.Catalog[:n])
	}
	return out
}

// PersonalizedCTA picks the call-to-action label for a state. Rules are
// evaluated in fixed priority order and the first match wins: corneal
// interests outrank vision-correction interests, which outrank the
// visit-count rule, which outranks the default.
func PersonalizedCTA(s State, p *Profile) string {
	if containsAny(s.InferredInterests, p.CornealTags) {
		return p.CornealCTA
	}
	if containsAny(s.InferredInterests, p.VisionTags) {
		return p.VisionCTA
	}
	if s.VisitCount > engagedVisitThreshold {
		return p.EngagedCTA
	}
	return p.DefaultCTA
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
