package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stored document is the only copy of the data, so the codec must
// round-trip every declared field losslessly.
func TestRoundTrip(t *testing.T) {
	meta := Meta{
		Title:      "Lemon Cake",
		Date:       "2024-03-01",
		Excerpt:    "A bright, tangy cake.",
		CookTime:   "45 min",
		Difficulty: "easy",
		Servings:   "8",
		Category:   "dessert",
		Tags:       []string{"cake", "citrus", "spring"},
		Published:  true,
		CoverImage: "https://img.example.com/cover.jpg",
	}
	body := "# Lemon Cake\n\nZest the lemons first.\n"

	doc, err := Encode(meta, body)
	require.NoError(t, err)

	gotMeta, gotBody, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)
	assert.Equal(t, body, gotBody)
}

func TestRoundTrip_SparseMeta(t *testing.T) {
	meta := Meta{Title: "Draft idea"}
	doc, err := Encode(meta, "notes\n")
	require.NoError(t, err)

	// Omitted fields must not be serialized at all.
	assert.NotContains(t, doc, "cookTime")
	assert.NotContains(t, doc, "published")

	gotMeta, gotBody, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)
	assert.Equal(t, "notes\n", gotBody)
}

func TestDecode_NoFrontMatter(t *testing.T) {
	raw := "# Just markdown\n\nNo header block here.\n"
	meta, body, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
	assert.Equal(t, raw, body)
}

func TestDecode_UnterminatedBlock(t *testing.T) {
	raw := "---\ntitle: Broken\nno closing delimiter"
	meta, body, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
	assert.Equal(t, raw, body)
}

func TestDecode_TagOrderPreserved(t *testing.T) {
	doc, err := Encode(Meta{Tags: []string{"z", "a", "m"}}, "")
	require.NoError(t, err)
	meta, _, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, meta.Tags)
}

func TestEncode_EmptyMetaOmitsBlockContent(t *testing.T) {
	doc, err := Encode(Meta{}, "body only\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "---\n---\n"), "doc: %q", doc)
}

func TestDecode_Malformed(t *testing.T) {
	_, _, err := Decode("---\n\t: not yaml\n---\nbody")
	assert.Error(t, err)
}
