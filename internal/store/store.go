// Package store persists documents, chunks and embedding vectors in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pkoval/claimlens/internal/index"
	"github.com/pkoval/claimlens/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the SQLite-backed persistence layer.
type Store struct {
	db    *sql.DB
	path  string
	quota int64
}

// NewStore opens (and if needed creates) the database under dataDir.
// If dataDir is empty, defaults to ~/.claimlens/data.
func NewStore(dataDir string, quotaBytes int64) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".claimlens", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "claimlens.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath, quota: quotaBytes}
	if err := s.migrate(); err != nil {
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

func (s *Store) migrate() error {
	// "end" is a SQL keyword, hence start_off/end_off
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			source_type TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			bytes       INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS chunks (
			doc_id    TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			idx       INTEGER NOT NULL,
			start_off INTEGER NOT NULL,
			end_off   INTEGER NOT NULL,
			text      TEXT NOT NULL,
			PRIMARY KEY (doc_id, idx)
		);
		CREATE TABLE IF NOT EXISTS vectors (
			id        TEXT PRIMARY KEY,
			doc_id    TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			idx       INTEGER NOT NULL,
			text      TEXT NOT NULL,
			start_off INTEGER NOT NULL,
			end_off   INTEGER NOT NULL,
			vector    BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_vectors_doc ON vectors(doc_id);
	`)
	return err
}

// SaveDocument inserts or replaces a document row.
func (s *Store) SaveDocument(ctx context.Context, doc model.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, source_type, created_at, bytes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source_type = excluded.source_type,
			bytes = excluded.bytes
	`, doc.ID, doc.Title, string(doc.SourceType), doc.CreatedAt, doc.Bytes)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument fetches one document by id.
func (s *Store) GetDocument(ctx context.Context, id string) (model.Document, error) {
	var doc model.Document
	var sourceType string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, source_type, created_at, bytes
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Title, &sourceType, &doc.CreatedAt, &doc.Bytes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, ErrNotFound
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("getting document: %w", err)
	}
	doc.SourceType = model.SourceType(sourceType)
	return doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, source_type, created_at, bytes
		FROM documents ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		var sourceType string
		if err := rows.Scan(&doc.ID, &doc.Title, &sourceType, &doc.CreatedAt, &doc.Bytes); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.SourceType = model.SourceType(sourceType)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document; chunks and vectors cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll removes every stored document, chunk and vector.
func (s *Store) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

// SaveChunks replaces the chunk set for a document.
func (s *Store) SaveChunks(ctx context.Context, docID string, chunks []model.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (doc_id, idx, start_off, end_off, text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, docID, c.Idx, c.Start, c.End, c.Text); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", c.Idx, err)
		}
	}
	return tx.Commit()
}

// GetChunks returns a document's chunks in order.
func (s *Store) GetChunks(ctx context.Context, docID string) ([]model.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, start_off, end_off, text
		FROM chunks WHERE doc_id = ? ORDER BY idx
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("getting chunks: %w", err)
	}
	defer rows.Close()

	var chunks []model.Chunk
	for rows.Next() {
		var c model.Chunk
		if err := rows.Scan(&c.Idx, &c.Start, &c.End, &c.Text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// SaveVectors replaces the vector set for a document in one transaction,
// so a failed embedding run never leaves a half-indexed document.
func (s *Store) SaveVectors(ctx context.Context, docID string, records []model.VectorRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, doc_id, idx, text, start_off, end_off, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		blob := index.EncodeVector(r.Vector)
		if _, err := stmt.ExecContext(ctx, r.ID, docID, r.Idx, r.Text, r.Start, r.End, blob); err != nil {
			return fmt.Errorf("inserting vector %d: %w", r.Idx, err)
		}
	}
	return tx.Commit()
}

// GetVectors returns a document's vector records in chunk order.
func (s *Store) GetVectors(ctx context.Context, docID string) ([]model.VectorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc_id, idx, text, start_off, end_off, vector
		FROM vectors WHERE doc_id = ? ORDER BY idx
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("getting vectors: %w", err)
	}
	defer rows.Close()

	var records []model.VectorRecord
	for rows.Next() {
		var r model.VectorRecord
		var blob []byte
		if err := rows.Scan(&r.ID, &r.DocID, &r.Idx, &r.Text, &r.Start, &r.End, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		r.Vector = index.DecodeVector(blob)
		records = append(records, r)
	}
	return records, rows.Err()
}

// HasVectors reports whether a document has been embedded.
func (s *Store) HasVectors(ctx context.Context, docID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM vectors WHERE doc_id = ?`, docID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting vectors: %w", err)
	}
	return n > 0, nil
}

// Usage reports database size against the configured quota. Size is
// best-effort: the WAL file is counted when present.
func (s *Store) Usage(ctx context.Context) (model.StorageUsage, error) {
	if err := ctx.Err(); err != nil {
		return model.StorageUsage{}, err
	}

	var used int64
	for _, p := range []string{s.path, s.path + "-wal"} {
		if info, err := os.Stat(p); err == nil {
			used += info.Size()
		}
	}
	return model.StorageUsage{UsedBytes: used, QuotaBytes: s.quota}, nil
}
