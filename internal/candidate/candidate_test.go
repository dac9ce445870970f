package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	raw := map[string]any{
		"cand_id":           "c-42",
		"name":              "Nguyen Van A",
		"emails":            []any{"a@example.com"},
		"skills_norm":       []any{"go", "sql"},
		"exp_years":         "4",
		"education_entries": []any{"HUST"},
	}

	c, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "c-42", c.ID)
	assert.Equal(t, "Nguyen Van A", c.Name)
	assert.Equal(t, []string{"a@example.com"}, c.Emails)
	assert.Equal(t, []string{"go", "sql"}, c.SkillsNorm)
	assert.Equal(t, 4.0, c.ExpYears)
	assert.Equal(t, []string{"HUST"}, c.EducationEntries)
}

func TestDecodeFillsEmptySlices(t *testing.T) {
	c, err := Decode(map[string]any{"cand_id": "x", "phones": nil, "exp_years": -3})
	require.NoError(t, err)

	assert.NotNil(t, c.Emails)
	assert.NotNil(t, c.Phones)
	assert.NotNil(t, c.Locations)
	assert.NotNil(t, c.SkillsNorm)
	assert.NotNil(t, c.ExperienceEntries)
	assert.NotNil(t, c.EducationEntries)
	assert.Zero(t, c.ExpYears)
}

func TestDecodeNil(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}
