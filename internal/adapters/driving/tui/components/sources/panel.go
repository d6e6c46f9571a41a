// Package sources renders the chunks retrieved for the last answer.
package sources

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// Panel lists retrieved chunks with their scores. Chunks that made it
// into the prompt context are marked with an asterisk.
type Panel struct {
	results []domain.ScoredChunk
	used    map[string]bool
	styles  *styles.Styles
	width   int
}

// NewPanel creates an empty panel.
func NewPanel(s *styles.Styles) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Panel{styles: s, width: 80}
}

// Set replaces the panel contents.
func (p *Panel) Set(results []domain.ScoredChunk, used []domain.Chunk) {
	p.results = results
	p.used = make(map[string]bool, len(used))
	for _, c := range used {
		p.used[c.ID] = true
	}
}

// Len returns the number of listed chunks.
func (p *Panel) Len() int {
	return len(p.results)
}

// SetWidth sets the render width.
func (p *Panel) SetWidth(width int) {
	p.width = width
}

// View renders the panel.
func (p *Panel) View() string {
	if len(p.results) == 0 {
		return p.styles.Muted.Render("No sources yet")
	}

	lines := make([]string, 0, len(p.results)*2+1)
	lines = append(lines, p.styles.Title.Render(fmt.Sprintf("Sources (%d)", len(p.results))))
	for i, r := range p.results {
		marker := " "
		if p.used[r.Chunk.ID] {
			marker = "*"
		}
		head := fmt.Sprintf("%s %d. %s", marker, i+1, label(r.Chunk))
		lines = append(lines,
			p.styles.Answer.Render(truncate(head, p.width-10))+"  "+p.styles.Muted.Render(fmt.Sprintf("%.3f", r.Score)),
			p.styles.Source.Render("    "+truncate(oneLine(r.Chunk.Text), p.width-6)),
		)
	}
	return p.styles.Panel.Render(strings.Join(lines, "\n"))
}

func label(c domain.Chunk) string {
	if c.Section != "" {
		return c.Title() + " (" + c.Section + ")"
	}
	return c.Title()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
