// Package domain defines the core entities of the question answering pipeline.
//
// This package is the innermost layer of the hexagon. It defines:
//
//   - SourceDocument: loaded text with its source identity
//   - Chunk: a bounded span of a source document
//   - EmbeddedChunk: a chunk with its vector
//   - ScoredChunk and Answer: per-query results
//   - PipelineConfig: chunking, retrieval and provider settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
