package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"text/plain", "text/markdown"}, n.SupportedMIMETypes())
	assert.Equal(t, 5, n.Priority())
}

func TestNormalise(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/docs/cat_facts-2024.txt",
		MIMEType: "text/plain",
		Content:  []byte("\ufeffCats purr.\r\nThey nap."),
	}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "/docs/cat_facts-2024.txt", doc.ID)
	assert.Equal(t, "/docs/cat_facts-2024.txt", doc.Path)
	assert.Equal(t, "cat facts 2024", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, SectionID, doc.Sections[0].ID)
	assert.Equal(t, "Cats purr.\nThey nap.", doc.Sections[0].Text)
	assert.Equal(t, "text", doc.Metadata["format"])
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
}

func TestNormalise_Markdown(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "notes.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Heading\n\nBody"),
		Metadata: map[string]any{"title": "My Notes"},
	}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "My Notes", doc.Title)
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.Equal(t, "# Heading\n\nBody", doc.Text())
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	raw := &domain.RawDocument{URI: "x.txt", MIMEType: "text/plain", Content: []byte{'a', 0xff, 'b'}}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFDb", doc.Sections[0].Text)
}

func TestNormalise_Nil(t *testing.T) {
	doc, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestNormalise_DoesNotMutateRawMetadata(t *testing.T) {
	meta := map[string]any{"k": "v"}
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "a.txt", Metadata: meta})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, meta)
}
