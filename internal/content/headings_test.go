package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingsDeterministicIDs(t *testing.T) {
	got := ExtractHeadings("## Hello, World!\n### Foo--Bar\n")
	assert.Equal(t, []Heading{
		{ID: "hello-world", Text: "Hello, World!", Level: 2},
		{ID: "foo-bar", Text: "Foo--Bar", Level: 3},
	}, got)
}

func TestHeadingsLevelBounds(t *testing.T) {
	src := "# Title\n## Two\n### Three\n#### Four\n##### Five\n"
	got := ExtractHeadings(src)
	assert.Equal(t, []Heading{
		{ID: "two", Text: "Two", Level: 2},
		{ID: "three", Text: "Three", Level: 3},
		{ID: "four", Text: "Four", Level: 4},
	}, got)
}

func TestHeadingsRequireSpaceAfterHashes(t *testing.T) {
	assert.Empty(t, ExtractHeadings("##NoSpace\n"))
}

func TestHeadingsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractHeadings(""))
	assert.Empty(t, ExtractHeadings("plain paragraph text\n\nmore text\n"))
}

func TestHeadingsDuplicateIDsPreserved(t *testing.T) {
	got := ExtractHeadings("## Recovery\n\ntext\n\n## Recovery\n")
	assert.Len(t, got, 2)
	assert.Equal(t, got[0].ID, got[1].ID)
}

func TestHeadingsSequenceIsRestartable(t *testing.T) {
	seq := Headings("## One\n### Two\n")

	var first, second []Heading
	for h := range seq {
		first = append(first, h)
	}
	for h := range seq {
		second = append(second, h)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestHeadingsEarlyStop(t *testing.T) {
	var got []Heading
	for h := range Headings("## One\n## Two\n## Three\n") {
		got = append(got, h)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}

func TestHeadingsHandleCRLF(t *testing.T) {
	got := ExtractHeadings("## Windows Line\r\nbody\r\n")
	assert.Equal(t, []Heading{{ID: "windows-line", Text: "Windows Line", Level: 2}}, got)
}

func TestHeadingID(t *testing.T) {
	assert.Equal(t, "dmek-vs-dsaek", HeadingID("DMEK vs. DSAEK"))
	assert.Equal(t, "100-recovery", HeadingID("100% Recovery?!"))
	assert.Equal(t, "", HeadingID("???"))
}
