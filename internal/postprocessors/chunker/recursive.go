package chunker

import (
	"unicode"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Separator levels, coarsest first. A separator stays attached to the end
// of the segment before it, so segments tile the text without gaps.
const (
	levelParagraph = iota
	levelLine
	levelSentence
	levelWhitespace
	levelChar
)

// Recursive splits text on paragraph breaks, then line breaks, sentence
// ends, whitespace and finally single characters, using the coarsest
// separator that yields pieces no longer than the chunk size.
type Recursive struct {
	chunkSize int
	overlap   int
}

// Ensure Recursive implements the Splitter interface.
var _ driven.Splitter = (*Recursive)(nil)

// NewRecursive creates a recursive chunker. It fails with
// domain.ErrConfiguration unless 0 <= overlap < chunk size.
func NewRecursive(opts ...Option) (*Recursive, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return &Recursive{chunkSize: s.chunkSize, overlap: s.overlap}, nil
}

// Name returns the strategy name.
func (c *Recursive) Name() string {
	return string(domain.ChunkStrategyRecursive)
}

// ChunkSize returns the maximum chunk length.
func (c *Recursive) ChunkSize() int { return c.chunkSize }

// Overlap returns the maximum overlap.
func (c *Recursive) Overlap() int { return c.overlap }

// Split chunks the joined text of doc.
func (c *Recursive) Split(doc *domain.SourceDocument) []domain.Chunk {
	return splitDocument(doc, c.spans)
}

// SplitText chunks a single text attributed to sourceID.
func (c *Recursive) SplitText(sourceID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	return toChunks(sourceID, runes, c.spans(runes), nil)
}

func (c *Recursive) spans(r []rune) []span {
	atoms := c.atoms(r, 0, len(r), levelParagraph)
	return c.merge(r, atoms)
}

// atoms tiles [start, end) with pieces no longer than the chunk size,
// cutting at the coarsest level that has separators.
func (c *Recursive) atoms(r []rune, start, end, level int) []span {
	if end-start <= c.chunkSize {
		return []span{{start, end}}
	}
	if level == levelChar {
		out := make([]span, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, span{i, i + 1})
		}
		return out
	}

	cuts := boundaries(r, start, end, level)
	if len(cuts) == 0 {
		return c.atoms(r, start, end, level+1)
	}

	var out []span
	prev := start
	for _, cut := range append(cuts, end) {
		out = append(out, c.atoms(r, prev, cut, level+1)...)
		prev = cut
	}
	return out
}

// merge packs consecutive atoms into chunks and seeds each chunk after
// the first with trailing context from its predecessor.
func (c *Recursive) merge(r []rune, atoms []span) []span {
	if len(atoms) == 0 {
		return nil
	}
	var out []span
	cur := atoms[0]
	for _, a := range atoms[1:] {
		if a.end-cur.start <= c.chunkSize {
			cur.end = a.end
			continue
		}
		out = append(out, cur)
		cur = span{c.overlapStart(r, cur, a.len()), a.end}
	}
	return append(out, cur)
}

// overlapStart picks where the next chunk begins inside prev. The overlap
// is at most the configured overlap and leaves room for the next atom.
// It prefers the longest suffix starting at a word; without one it takes
// the exact trailing characters.
func (c *Recursive) overlapStart(r []rune, prev span, next int) int {
	budget := c.overlap
	if room := c.chunkSize - next; room < budget {
		budget = room
	}
	if budget <= 0 {
		return prev.end
	}
	lo := prev.end - budget
	if lo <= prev.start {
		lo = prev.start + 1
	}
	if lo >= prev.end {
		return prev.end
	}
	for p := lo; p < prev.end; p++ {
		if unicode.IsSpace(r[p-1]) && !unicode.IsSpace(r[p]) {
			return p
		}
	}
	return lo
}

// boundaries returns the cut positions strictly inside (start, end) for
// the given separator level. Each cut falls just after a separator.
func boundaries(r []rune, start, end, level int) []int {
	var cuts []int
	add := func(p int) {
		if p > start && p < end {
			cuts = append(cuts, p)
		}
	}

	switch level {
	case levelParagraph:
		for i := start; i+1 < end; i++ {
			if r[i] == '\n' && r[i+1] == '\n' {
				j := i
				for j < end && r[j] == '\n' {
					j++
				}
				add(j)
				i = j - 1
			}
		}
	case levelLine:
		for i := start; i < end; i++ {
			if r[i] == '\n' {
				j := i
				for j < end && r[j] == '\n' {
					j++
				}
				add(j)
				i = j - 1
			}
		}
	case levelSentence:
		for i := start; i+1 < end; i++ {
			if isSentenceEnd(r[i]) && unicode.IsSpace(r[i+1]) {
				j := i + 1
				for j < end && unicode.IsSpace(r[j]) {
					j++
				}
				add(j)
				i = j - 1
			}
		}
	case levelWhitespace:
		for i := start; i < end; i++ {
			if unicode.IsSpace(r[i]) {
				j := i
				for j < end && unicode.IsSpace(r[j]) {
					j++
				}
				add(j)
				i = j - 1
			}
		}
	}
	return cuts
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
