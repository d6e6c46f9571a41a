package domain

import "strings"

// SectionSeparator joins the sections of a document into the text that
// is chunked. Chunk offsets refer to the joined text.
const SectionSeparator = "\n\n"

// Section is an ordered piece of a source document, such as a PDF page.
type Section struct {
	// ID identifies the section within its document (e.g. "page-3").
	ID string

	// Text is the raw extracted text.
	Text string
}

// SourceDocument is loaded text together with its source identity.
// It is immutable once produced by a loader.
type SourceDocument struct {
	// ID is the source identifier, usually the file path.
	ID string

	// Path is the location the document was loaded from.
	Path string

	// Title is the human-readable title.
	Title string

	// Sections are the ordered text segments of the document.
	Sections []Section

	// Metadata contains loader-specific key-value pairs.
	Metadata map[string]any
}

// Text returns the sections joined by SectionSeparator.
func (d *SourceDocument) Text() string {
	parts := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, SectionSeparator)
}

// SectionAt returns the ID of the section containing the given rune offset
// of the joined text. Offsets past the end map to the last section.
func (d *SourceDocument) SectionAt(offset int) string {
	pos := 0
	sepLen := len([]rune(SectionSeparator))
	for i, s := range d.Sections {
		end := pos + len([]rune(s.Text))
		if offset < end+sepLen || i == len(d.Sections)-1 {
			return s.ID
		}
		pos = end + sepLen
	}
	return ""
}

// MetaTitle is the chunk metadata key holding the document title.
const MetaTitle = "title"

// Chunk is a bounded, contiguous span of a source document's text.
// Text always equals the source runes in [CharStart, CharEnd).
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceID links to the SourceDocument.
	SourceID string

	// Index is the ordinal position within the source, starting at 0.
	Index int

	// Text is the chunk content.
	Text string

	// CharStart is the inclusive start offset in runes.
	CharStart int

	// CharEnd is the exclusive end offset in runes.
	CharEnd int

	// Section is the ID of the section the chunk starts in.
	Section string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return c.CharEnd - c.CharStart
}

// Title returns the title of the chunk's document as stamped in its
// metadata, falling back to the source ID.
func (c Chunk) Title() string {
	if t, ok := c.Metadata[MetaTitle].(string); ok && t != "" {
		return t
	}
	return c.SourceID
}

// EmbeddedChunk pairs a chunk with its embedding vector.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}
