package vectorindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// A zero vector scores 0 against anything. Vectors of different
// length are compared over their common prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Rounding can push |s| marginally past 1.
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// Ranked is a score paired with the insertion position of its chunk.
type Ranked struct {
	Position int
	Score    float64
	Chunk    domain.Chunk
}

// SortRanked orders results by descending score, breaking ties by
// ascending insertion position.
func SortRanked(rs []Ranked) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].Position < rs[j].Position
	})
}

// TopK truncates sorted results to k and converts them to scored chunks.
func TopK(rs []Ranked, k int) []domain.ScoredChunk {
	if k > len(rs) {
		k = len(rs)
	}
	if k <= 0 {
		return []domain.ScoredChunk{}
	}
	out := make([]domain.ScoredChunk, k)
	for i := 0; i < k; i++ {
		out[i] = domain.ScoredChunk{Chunk: rs[i].Chunk, Score: rs[i].Score}
	}
	return out
}

// CheckBatch validates a build batch and returns its dimension.
func CheckBatch(items []domain.EmbeddedChunk) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("build index: %w", domain.ErrEmptyInput)
	}
	dims := len(items[0].Vector)
	if dims == 0 {
		return 0, fmt.Errorf("build index: chunk 0 has an empty vector: %w", domain.ErrDimensionMismatch)
	}
	for i, it := range items {
		if len(it.Vector) != dims {
			return 0, fmt.Errorf("build index: chunk %d has %d dimensions, want %d: %w",
				i, len(it.Vector), dims, domain.ErrDimensionMismatch)
		}
	}
	return dims, nil
}
