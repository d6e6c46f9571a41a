// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - LanguageModel: Completes a rendered prompt
//   - VectorIndex: Stores embedded chunks and answers nearest-neighbour queries
//   - DocumentLoader: Turns a file path into a SourceDocument
//   - Normaliser / NormaliserRegistry: Per-format text extraction
//   - Splitter: Chunks a SourceDocument
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - IndexStore: Persists a built index. Without it the index lives in memory only.
//   - ChunkExporter: Writes extracted chunks to a document.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
