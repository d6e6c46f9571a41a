package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

type fakeNormaliser struct {
	name     string
	priority int
	mimes    []string
}

func (f *fakeNormaliser) SupportedMIMETypes() []string { return f.mimes }
func (f *fakeNormaliser) Priority() int                { return f.priority }
func (f *fakeNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error) {
	return &domain.SourceDocument{ID: raw.URI, Title: f.name}, nil
}

func TestRegistry_PicksHighestPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeNormaliser{name: "fallback", priority: 5, mimes: []string{"text/plain"}})
	r.Register(&fakeNormaliser{name: "special", priority: 80, mimes: []string{"text/plain", "text/x-special"}})
	r.Register(&fakeNormaliser{name: "generic", priority: 50, mimes: []string{"text/plain"}})

	doc, err := r.Normalise(context.Background(), &domain.RawDocument{URI: "a", MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "special", doc.Title)

	assert.Equal(t, []string{"text/plain", "text/x-special"}, r.SupportedMIMETypes())
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/markdown",
		"text/plain",
	}, r.SupportedMIMETypes())

	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "hello.txt",
		MIMEType: "text/plain",
		Content:  []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Text())
}
