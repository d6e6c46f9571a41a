package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is a SQLite-backed IndexStore.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns ~/.ragqa/index.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ragqa", "index.db"), nil
}

// NewStore opens or creates the database at dbPath and applies migrations.
// If dbPath is empty, DefaultPath is used.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveIndex replaces the stored index with the given chunks.
func (s *Store) SaveIndex(ctx context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM index_manifest"); err != nil {
		return fmt.Errorf("clearing manifest: %w", err)
	}

	builtAt := manifest.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_manifest (id, embedding_model, dimensions, chunk_size, chunk_overlap, chunk_count, built_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, manifest.EmbeddingModel, manifest.Dimensions, manifest.ChunkSize, manifest.ChunkOverlap,
		len(chunks), builtAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, id, source_id, chunk_index, content, char_start, char_end, section, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, ec := range chunks {
		metadataJSON, err := json.Marshal(ec.Chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for chunk %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx, i, ec.Chunk.ID, ec.Chunk.SourceID, ec.Chunk.Index, ec.Chunk.Text,
			ec.Chunk.CharStart, ec.Chunk.CharEnd, ec.Chunk.Section, nullJSON(metadataJSON),
			float32SliceToBytes(ec.Vector))
		if err != nil {
			return fmt.Errorf("saving chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// LoadIndex returns the stored index in insertion order.
func (s *Store) LoadIndex(ctx context.Context) (*domain.IndexManifest, []domain.EmbeddedChunk, error) {
	var (
		m       domain.IndexManifest
		builtAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT embedding_model, dimensions, chunk_size, chunk_overlap, chunk_count, built_at
		FROM index_manifest WHERE id = 1
	`).Scan(&m.EmbeddingModel, &m.Dimensions, &m.ChunkSize, &m.ChunkOverlap, &m.Chunks, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("no saved index in %s: %w", s.path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading manifest: %w", err)
	}
	if m.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt); err != nil {
		return nil, nil, fmt.Errorf("parsing built_at %q: %w", builtAt, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, chunk_index, content, char_start, char_end, section, metadata, embedding
		FROM chunks ORDER BY position
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.EmbeddedChunk, 0, m.Chunks)
	for rows.Next() {
		ec, err := scanChunk(rows)
		if err != nil {
			return nil, nil, err
		}
		chunks = append(chunks, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating chunks: %w", err)
	}
	if len(chunks) != m.Chunks {
		return nil, nil, fmt.Errorf("%w: manifest lists %d chunks, found %d",
			domain.ErrInvalidInput, m.Chunks, len(chunks))
	}

	return &m, chunks, nil
}

func scanChunk(rows *sql.Rows) (domain.EmbeddedChunk, error) {
	var (
		ec            domain.EmbeddedChunk
		metadataJSON  sql.NullString
		embeddingBlob []byte
	)
	c := &ec.Chunk
	if err := rows.Scan(&c.ID, &c.SourceID, &c.Index, &c.Text, &c.CharStart, &c.CharEnd,
		&c.Section, &metadataJSON, &embeddingBlob); err != nil {
		return ec, fmt.Errorf("scanning chunk: %w", err)
	}

	if metadataJSON.Valid && metadataJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON.String), &c.Metadata); err != nil {
			return ec, fmt.Errorf("unmarshalling metadata for chunk %s: %w", c.ID, err)
		}
	}

	if len(embeddingBlob)%4 != 0 {
		return ec, fmt.Errorf("%w: embedding for chunk %s has %d bytes", domain.ErrInvalidInput, c.ID, len(embeddingBlob))
	}
	ec.Vector = bytesToFloat32Slice(embeddingBlob)
	return ec, nil
}

// nullJSON stores an empty or null JSON value as SQL NULL.
func nullJSON(b []byte) any {
	if len(b) == 0 || string(b) == jsonNull {
		return nil
	}
	return string(b)
}

// float32SliceToBytes converts a []float32 to little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts little-endian bytes back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
