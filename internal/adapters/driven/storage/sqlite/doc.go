// Package sqlite persists a built vector index so later runs can answer
// questions without re-embedding their documents.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database holds a single index: one manifest row and
// the chunks in insertion order, each with its embedding stored as a
// little-endian float32 blob.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.ragqa/index.db
//
// # Thread Safety
//
// All operations are thread-safe. SaveIndex replaces the index inside one
// transaction, so readers never observe a partial index.
package sqlite
