package content

import (
	"iter"
	"regexp"
	"strings"
)

// Heading is one entry in a document outline.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// HeadingID derives the anchor id for a heading: lowercase, every run of
// non-alphanumeric characters collapsed to a single hyphen, ends trimmed.
// Identical text yields identical ids; no collision suffixing is applied.
func HeadingID(text string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(text), "-"), "-")
}

// Headings scans src for markdown headings of level 2 through 4 without a
// full markdown parse. Level-1 headings are the document title and level 5+
// are too deep for an outline; both are skipped. The sequence is lazy and
// restartable, in document order. Content with no headings yields nothing.
func Headings(src string) iter.Seq[Heading] {
	return func(yield func(Heading) bool) {
		for line := range strings.Lines(src) {
			line = strings.TrimRight(line, "\r\n")
			level := 0
			for level < len(line) && line[level] == '#' {
				level++
			}
			if level < 2 || level > 4 {
				continue
			}
			rest := line[level:]
			if !strings.HasPrefix(rest, " ") {
				continue
			}
			text := strings.TrimSpace(rest)
			if text == "" {
				continue
			}
			h := Heading{ID: HeadingID(text), Text: text, Level: level}
			if !yield(h) {
				return
			}
		}
	}
}

// ExtractHeadings collects the full outline of src.
func ExtractHeadings(src string) []Heading {
	var out []Heading
	for h := range Headings(src) {
		out = append(out, h)
	}
	return out
}
