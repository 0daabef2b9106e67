package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	n := LegacyItem{}.Normalize()
	assert.Equal(t, "Untitled", n.Title)
	assert.Equal(t, ItemTypeNote, n.Type)
	assert.Equal(t, "", n.Content)
	assert.Empty(t, n.Tags)
	assert.True(t, n.CreatedAt.IsZero())
}

func TestNormalize_TypeIsCaseNormalized(t *testing.T) {
	n := LegacyItem{Type: " PDF "}.Normalize()
	assert.Equal(t, ItemTypePDF, n.Type)
}

func TestNormalize_ContentFallsBackToDescription(t *testing.T) {
	n := LegacyItem{Description: "desc"}.Normalize()
	assert.Equal(t, "desc", n.Content)

	n = LegacyItem{Content: "body", Description: "desc"}.Normalize()
	assert.Equal(t, "body", n.Content)
}

func TestNormalize_KeywordsWinOverTags(t *testing.T) {
	n := LegacyItem{Keywords: []string{"k"}, Tags: []string{"t"}}.Normalize()
	assert.Equal(t, []string{"k"}, n.Tags)

	n = LegacyItem{Tags: []string{"t"}}.Normalize()
	assert.Equal(t, []string{"t"}, n.Tags)
}

func TestNormalize_CreatedAtParsed(t *testing.T) {
	n := LegacyItem{CreatedAt: "2023-04-05T06:07:08Z"}.Normalize()
	require.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC), n.CreatedAt.UTC())

	// unparseable timestamps are dropped, not fatal
	n = LegacyItem{CreatedAt: "yesterday"}.Normalize()
	assert.True(t, n.CreatedAt.IsZero())
}

func TestHasFilePayload(t *testing.T) {
	assert.True(t, LegacyItem{Type: "pdf", DataURL: "data:application/pdf;base64,AAAA"}.HasFilePayload())
	assert.False(t, LegacyItem{Type: "note", DataURL: "data:text/plain;base64,AAAA"}.HasFilePayload())
	assert.False(t, LegacyItem{Type: "pdf"}.HasFilePayload())
}

func TestDecodeDataURL(t *testing.T) {
	li := LegacyItem{DataURL: "data:application/pdf;base64,aGVsbG8="}
	raw, err := li.DecodeDataURL()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), raw)
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	cases := []string{
		"application/pdf;base64,AAAA", // no data: prefix
		"data:application/pdf,plain",  // not base64
		"data:application/pdf;base64", // no separator
		"data:application/pdf;base64,!!!",
	}
	for _, c := range cases {
		_, err := LegacyItem{DataURL: c}.DecodeDataURL()
		require.ErrorIs(t, err, ErrBadDataURL, "input %q", c)
	}
}

func TestParseLegacyItems(t *testing.T) {
	items, err := ParseLegacyItems([]byte(`[{"title":"Note A","type":"note","content":"hello"}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Note A", items[0].Title)

	items, err = ParseLegacyItems(nil)
	require.NoError(t, err)
	assert.Nil(t, items)

	_, err = ParseLegacyItems([]byte(`{not json`))
	require.Error(t, err)
}
