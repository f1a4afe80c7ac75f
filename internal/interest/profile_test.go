package interest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personalization.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
defaultCTA: "Call the office"
catalog:
  - title: "New Patient Checklist"
    path: "/guides/new-patient-checklist"
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "Call the office", p.DefaultCTA)
	require.Len(t, p.Catalog, 1)
	assert.Equal(t, "/guides/new-patient-checklist", p.Catalog[0].Path)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, DefaultProfile().CornealCTA, p.CornealCTA)
	assert.NotEmpty(t, p.PathInterests)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadProfileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [unclosed"), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestRecommendIsCaseInsensitive(t *testing.T) {
	p := DefaultProfile()
	recs := p.Recommend([]string{"lasik"})
	require.NotEmpty(t, recs)
	assert.Equal(t, "Is LASIK Right for You?", recs[0].Title)
}
