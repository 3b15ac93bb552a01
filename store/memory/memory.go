// Package memory provides an in-process knowledge basin, useful for tests
// and for small corpora that fit comfortably in the hosting process.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/adjusterhq/basin"
)

// Store holds documents and their chunks in memory. Safe for concurrent
// use.
type Store struct {
	mu     sync.RWMutex
	docs   []basin.DocumentMeta
	chunks map[string][]basin.Chunk
}

var _ basin.StatsSearcher = (*Store)(nil)

// NewStore creates an empty in-memory basin.
func NewStore() *Store {
	return &Store{chunks: make(map[string][]basin.Chunk)}
}

// AddDocument registers a document. A missing ID is generated.
func (s *Store) AddDocument(doc basin.DocumentMeta) basin.DocumentMeta {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return doc
}

// AddChunks attaches chunks to a previously added document, filling in the
// document identity and generating chunk IDs where absent.
func (s *Store) AddChunks(docID string, chunks ...basin.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc *basin.DocumentMeta
	for i := range s.docs {
		if s.docs[i].ID == docID {
			doc = &s.docs[i]
			break
		}
	}

	for _, c := range chunks {
		if c.ChunkID == "" {
			c.ChunkID = uuid.NewString()
		}
		c.DocID = docID
		if doc != nil {
			if c.DocTitle == "" {
				c.DocTitle = doc.Title
			}
			if c.Category == "" {
				c.Category = doc.Category
			}
		}
		s.chunks[docID] = append(s.chunks[docID], c)
	}
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID == docID {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			break
		}
	}
	delete(s.chunks, docID)
}

// Search implements basin.Searcher.
func (s *Store) Search(ctx context.Context, query string, settings basin.Settings) ([]basin.Match, error) {
	outcome, err := s.SearchWithStats(ctx, query, settings)
	if err != nil {
		return nil, err
	}
	return outcome.Matches, nil
}

// SearchWithStats filters the corpus, ranks the candidate pool against the
// expanded query variants, and applies diversity selection.
func (s *Store) SearchWithStats(ctx context.Context, query string, settings basin.Settings) (basin.SearchOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return basin.SearchCorpus(query, s.docs, s.chunks, settings), nil
}
