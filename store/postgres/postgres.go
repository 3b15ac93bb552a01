// Package postgres provides a PostgreSQL-backed knowledge basin. Document
// and chunk rows live in two tables; status/category filtering is pushed
// down to SQL and the lexical ranking pass runs in process.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adjusterhq/basin"
	"github.com/adjusterhq/basin/log"
)

// DBPool is the connection-pool surface the store needs. pgxpool.Pool
// satisfies it; tests substitute a pgxmock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Options configures the Postgres connection.
type Options struct {
	ConnString string
}

// Store is a Postgres-backed basin.
type Store struct {
	pool DBPool
}

var _ basin.StatsSearcher = (*Store)(nil)

// NewStore creates a Postgres-backed basin store.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool creates a store around an existing pool. Useful for
// testing with mocks.
func NewStoreWithPool(pool DBPool) *Store {
	return &Store{pool: pool}
}

// InitSchema creates the basin tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kb_documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			category TEXT,
			tags TEXT[]
		);
		CREATE TABLE IF NOT EXISTS kb_chunks (
			chunk_id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL REFERENCES kb_documents (id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			category TEXT,
			metadata JSONB
		);
		CREATE INDEX IF NOT EXISTS idx_kb_chunks_doc_id ON kb_chunks (doc_id);
	`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// SaveDocument inserts or updates a document record.
func (s *Store) SaveDocument(ctx context.Context, doc basin.DocumentMeta) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}

	query := `
		INSERT INTO kb_documents (id, title, status, category, tags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags
	`

	if _, err := s.pool.Exec(ctx, query, doc.ID, doc.Title, doc.Status, doc.Category, doc.Tags); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// AddChunks inserts chunks for a document.
func (s *Store) AddChunks(ctx context.Context, docID string, chunks ...basin.Chunk) error {
	query := `
		INSERT INTO kb_chunks (chunk_id, doc_id, content, category, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chunk_id) DO UPDATE SET
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			metadata = EXCLUDED.metadata
	`

	for _, c := range chunks {
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		if _, err := s.pool.Exec(ctx, query, c.ChunkID, docID, c.Content, c.Category, metadataJSON); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", c.ChunkID, err)
		}
	}
	return nil
}

// DeleteDocument removes a document; its chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM kb_documents WHERE id = $1", docID); err != nil {
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

// SearchWithStats pushes the status/category filters down to SQL, loads
// the matching slice of the basin, and runs the in-process retrieval pass.
func (s *Store) SearchWithStats(ctx context.Context, query string, settings basin.Settings) (basin.SearchOutcome, error) {
	var totalDocs int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM kb_documents").Scan(&totalDocs); err != nil {
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
	query := `
		SELECT id, title, status, COALESCE(category, ''), COALESCE(tags, '{}')
		FROM kb_documents
		WHERE LOWER(status) = ANY($1)
		  AND (cardinality($2::text[]) = 0 OR LOWER(COALESCE(category, '')) = ANY($2))
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, lowerAll(settings.Statuses), lowerAll(settings.Categories))
	if err != nil {
		return nil, fmt.Errorf("failed to query basin documents: %w", err)
	}
	defer rows.Close()

	var docs []basin.DocumentMeta
	for rows.Next() {
		var doc basin.DocumentMeta
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Status, &doc.Category, &doc.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
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

	ids := make([]string, len(docs))
	titles := make(map[string]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		titles[d.ID] = d.Title
	}

	query := `
		SELECT chunk_id, doc_id, content, COALESCE(category, ''), metadata
		FROM kb_chunks
		WHERE doc_id = ANY($1)
		ORDER BY doc_id, chunk_id
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query basin chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c basin.Chunk
		var metadataJSON []byte
		if err := rows.Scan(&c.ChunkID, &c.DocID, &c.Content, &c.Category, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
				log.Warn("postgres basin: skipping malformed metadata on chunk %s: %v", c.ChunkID, err)
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

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
