package domain

import "time"

// ScoredChunk is a retrieved chunk with its similarity score.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity with the query, in [-1, 1].
	Score float64
}

// Answer is the result of a question answered against the index.
type Answer struct {
	// Text is the language model's answer.
	Text string

	// Sources are the chunks that were placed in the prompt context,
	// in descending score order.
	Sources []Chunk
}

// IndexManifest describes a persisted index.
type IndexManifest struct {
	// EmbeddingModel is the model that produced the vectors.
	EmbeddingModel string

	// Dimensions is the vector length.
	Dimensions int

	// ChunkSize and ChunkOverlap are the chunker settings used.
	ChunkSize    int
	ChunkOverlap int

	// Chunks is the number of stored chunks.
	Chunks int

	// BuiltAt is when the index was built.
	BuiltAt time.Time
}

// IngestReport summarises a multi-file ingest.
type IngestReport struct {
	// Documents are the successfully loaded documents.
	Documents []*SourceDocument

	// Chunks are all chunks produced, grouped by document in load order.
	Chunks []Chunk

	// Warnings holds non-fatal problems such as skipped files.
	Warnings []string
}
