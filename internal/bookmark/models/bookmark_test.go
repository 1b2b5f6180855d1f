package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "linkshelf/pkg/domain-errors"
)

func TestNewBookmarkRequiresNameAndURL(t *testing.T) {
	_, err := NewBookmark("  ", "https://example.com", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = NewBookmark("Example", "", "", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	b, err := NewBookmark(" Example ", " https://example.com ", " chat ", "us")
	require.NoError(t, err)
	assert.Equal(t, "Example", b.Name)
	assert.Equal(t, "https://example.com", b.URL)
	assert.Equal(t, "chat", b.Type)
}

func TestPatchAppliesOnlySuppliedFields(t *testing.T) {
	b := &Bookmark{ID: "1", Name: "Old", URL: "https://old", Type: "chat", Region: "us"}
	name := "New"
	region := ""
	Patch{Name: &name, Region: &region}.Apply(b)

	assert.Equal(t, "New", b.Name)
	assert.Equal(t, "https://old", b.URL)
	assert.Equal(t, "chat", b.Type)
	assert.Equal(t, "", b.Region)
}

func TestPatchValidate(t *testing.T) {
	empty := " "
	assert.Error(t, Patch{Name: &empty}.Validate())
	assert.Error(t, Patch{URL: &empty}.Validate())
	assert.NoError(t, Patch{Type: &empty}.Validate())
	assert.True(t, Patch{}.Empty())
}

func TestSortBreaksRankTiesByID(t *testing.T) {
	records := []*Bookmark{
		{ID: "c", Rank: 1},
		{ID: "b", Rank: 0},
		{ID: "a", Rank: 1},
	}
	Sort(records)
	assert.Equal(t, []string{"b", "a", "c"}, []string{records[0].ID, records[1].ID, records[2].ID})
}
