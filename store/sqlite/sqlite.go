// Package sqlite provides a SQLite-backed knowledge basin. It suits
// single-process deployments where the basin must survive restarts
// without running a database server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adjusterhq/basin"
	"github.com/adjusterhq/basin/log"
)

// Options configuration for the SQLite connection.
type Options struct {
	Path string // ":memory:" for an in-memory basin
}

// Store is a SQLite-backed basin.
type Store struct {
	db *sql.DB
}

var _ basin.StatsSearcher = (*Store)(nil)

// NewStore opens (or creates) a SQLite basin at the given path.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// InitSchema creates the basin tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kb_documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			category TEXT,
			tags TEXT
		);
		CREATE TABLE IF NOT EXISTS kb_chunks (
			chunk_id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT,
			metadata TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_kb_chunks_doc_id ON kb_chunks (doc_id);
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument inserts or updates a document record.
func (s *Store) SaveDocument(ctx context.Context, doc basin.DocumentMeta) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}

	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal document tags: %w", err)
	}

	query := `
		INSERT INTO kb_documents (id, title, status, category, tags)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			category = excluded.category,
			tags = excluded.tags
	`

	if _, err := s.db.ExecContext(ctx, query, doc.ID, doc.Title, doc.Status, doc.Category, string(tagsJSON)); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// AddChunks inserts chunks for a document.
func (s *Store) AddChunks(ctx context.Context, docID string, chunks ...basin.Chunk) error {
	query := `
		INSERT INTO kb_chunks (chunk_id, doc_id, content, category, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			content = excluded.content,
			category = excluded.category,
			metadata = excluded.metadata
	`

	for _, c := range chunks {
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, c.ChunkID, docID, c.Content, c.Category, string(metadataJSON)); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", c.ChunkID, err)
		}
	}
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kb_chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kb_documents WHERE id = ?", docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Search implements basin.Searcher.
func (s *Store) Search(ctx context.Context, query string, settings basin.Settings) ([]basin.Match, error) {
	outcome, err := s.SearchWithStats(ctx, query, settings)
	if err != nil {
		return nil, err
	}
	return outcome.Matches, nil
}

// SearchWithStats pushes the status filter down to SQL, loads the matching
// slice of the basin, and runs the in-process retrieval pass.
func (s *Store) SearchWithStats(ctx context.Context, query string, settings basin.Settings) (basin.SearchOutcome, error) {
	var totalDocs int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kb_documents").Scan(&totalDocs); err != nil {
		return basin.SearchOutcome{}, fmt.Errorf("failed to count basin documents: %w", err)
	}

	docs, err := s.loadMatchingDocuments(ctx, settings)
	if err != nil {
		return basin.SearchOutcome{}, err
	}

	chunks, err := s.loadChunks(ctx, docs)
	if err != nil {
		return basin.SearchOutcome{}, err
	}

	outcome := basin.SearchCorpus(query, docs, chunks, settings)
	outcome.Stats.DocsProcessed = totalDocs
	return outcome, nil
}

func (s *Store) loadMatchingDocuments(ctx context.Context, settings basin.Settings) ([]basin.DocumentMeta, error) {
	placeholders := make([]string, len(settings.Statuses))
	args := make([]any, len(settings.Statuses))
	for i, status := range settings.Statuses {
		placeholders[i] = "?"
		args[i] = strings.ToLower(status)
	}

	query := fmt.Sprintf(`
		SELECT id, title, status, COALESCE(category, ''), COALESCE(tags, '[]')
		FROM kb_documents
		WHERE LOWER(status) IN (%s)
		ORDER BY id
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query basin documents: %w", err)
	}
	defer rows.Close()

	var docs []basin.DocumentMeta
	for rows.Next() {
		var doc basin.DocumentMeta
		var tagsJSON string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Status, &doc.Category, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
				log.Warn("sqlite basin: skipping malformed tags on document %s: %v", doc.ID, err)
				doc.Tags = nil
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

func (s *Store) loadChunks(ctx context.Context, docs []basin.DocumentMeta) (map[string][]basin.Chunk, error) {
	chunks := make(map[string][]basin.Chunk)
	if len(docs) == 0 {
		return chunks, nil
	}

	placeholders := make([]string, len(docs))
	args := make([]any, len(docs))
	titles := make(map[string]string, len(docs))
	for i, d := range docs {
		placeholders[i] = "?"
		args[i] = d.ID
		titles[d.ID] = d.Title
	}

	query := fmt.Sprintf(`
		SELECT chunk_id, doc_id, content, COALESCE(category, ''), COALESCE(metadata, '')
		FROM kb_chunks
		WHERE doc_id IN (%s)
		ORDER BY doc_id, chunk_id
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query basin chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c basin.Chunk
		var metadataJSON string
		if err := rows.Scan(&c.ChunkID, &c.DocID, &c.Content, &c.Category, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &c.Metadata); err != nil {
				log.Warn("sqlite basin: skipping malformed metadata on chunk %s: %v", c.ChunkID, err)
				c.Metadata = nil
			}
		}
		c.DocTitle = titles[c.DocID]
		chunks[c.DocID] = append(chunks[c.DocID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunk rows: %w", err)
	}
	return chunks, nil
}
