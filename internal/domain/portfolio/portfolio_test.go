package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, "Mohamed Samy", p.Profile.Name)
	assert.Equal(t, "Data Analyst", p.Profile.Title)
	assert.Equal(t, "#3b82f6", p.Profile.AccentColor)
	assert.Empty(t, p.Projects)
	assert.Empty(t, p.Experiences)
}

func TestNormalize_RendersEmptyLists(t *testing.T) {
	p := (&Portfolio{
		Profile:  DefaultProfile(),
		Projects: []Project{{ID: "1", Title: "No images"}},
	}).Normalize()

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"experiences":[]`)
	assert.Contains(t, string(raw), `"images":[]`)
	assert.Contains(t, string(raw), `"links":{}`)
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("projects")
	require.NoError(t, err)
	assert.Equal(t, SectionProjects, s)

	_, err = ParseSection("projects; DROP TABLE portfolio")
	assert.Error(t, err)
}
