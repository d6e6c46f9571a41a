package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDocument_Text(t *testing.T) {
	t.Run("joins sections", func(t *testing.T) {
		doc := SourceDocument{
			ID: "a.pdf",
			Sections: []Section{
				{ID: "page-1", Text: "first"},
				{ID: "page-2", Text: "second"},
			},
		}
		assert.Equal(t, "first\n\nsecond", doc.Text())
	})

	t.Run("single section is unchanged", func(t *testing.T) {
		doc := SourceDocument{Sections: []Section{{ID: "body", Text: "only"}}}
		assert.Equal(t, "only", doc.Text())
	})

	t.Run("no sections is empty", func(t *testing.T) {
		doc := SourceDocument{}
		assert.Empty(t, doc.Text())
	})
}

func TestSourceDocument_SectionAt(t *testing.T) {
	doc := SourceDocument{
		Sections: []Section{
			{ID: "page-1", Text: "abc"},
			{ID: "page-2", Text: "défg"},
		},
	}

	// Joined text: "abc\n\ndéfg", page-2 starts at rune 5.
	assert.Equal(t, "page-1", doc.SectionAt(0))
	assert.Equal(t, "page-1", doc.SectionAt(2))
	assert.Equal(t, "page-1", doc.SectionAt(4))
	assert.Equal(t, "page-2", doc.SectionAt(5))
	assert.Equal(t, "page-2", doc.SectionAt(8))
	assert.Equal(t, "page-2", doc.SectionAt(100))
	assert.Empty(t, (&SourceDocument{}).SectionAt(0))
}

func TestChunk_Len(t *testing.T) {
	c := Chunk{CharStart: 8, CharEnd: 26}
	assert.Equal(t, 18, c.Len())
}

func TestChunk_Title(t *testing.T) {
	c := Chunk{SourceID: "src-1"}
	assert.Equal(t, "src-1", c.Title())

	c.Metadata = map[string]any{MetaTitle: "Report"}
	assert.Equal(t, "Report", c.Title())
}
