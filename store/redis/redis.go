// Package redis provides a Redis-backed knowledge basin. Document metadata
// and chunks are stored as JSON under a configurable key prefix; search
// loads the basin and ranks in process with the engine's lexical utilities.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adjusterhq/basin"
	"github.com/adjusterhq/basin/log"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "basin:"
	TTL      time.Duration // expiration for basin keys, default 0 (none)
}

// Store is a Redis-backed basin.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ basin.StatsSearcher = (*Store)(nil)

// NewStore creates a Redis-backed basin store.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "basin:"
	}

	return &Store{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) docKey(id string) string {
	return fmt.Sprintf("%sdoc:%s", s.prefix, id)
}

func (s *Store) chunksKey(id string) string {
	return fmt.Sprintf("%sdoc:%s:chunks", s.prefix, id)
}

func (s *Store) docsKey() string {
	return s.prefix + "docs"
}

// SaveDocument stores (or replaces) a document record and indexes it in
// the basin's document set.
func (s *Store) SaveDocument(ctx context.Context, doc basin.DocumentMeta) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.docKey(doc.ID), data, s.ttl)
	pipe.SAdd(ctx, s.docsKey(), doc.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.docsKey(), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save document to redis: %w", err)
	}
	return nil
}

// AddChunks appends chunks to a document. Document identity on each chunk
// is overwritten with docID.
func (s *Store) AddChunks(ctx context.Context, docID string, chunks ...basin.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	values := make([]any, 0, len(chunks))
	for _, c := range chunks {
		c.DocID = docID
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk %s: %w", c.ChunkID, err)
		}
		values = append(values, data)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.chunksKey(docID), values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.chunksKey(docID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add chunks to redis: %w", err)
	}
	return nil
}

// DeleteDocument removes a document, its chunks, and its index entry.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.docKey(docID))
	pipe.Del(ctx, s.chunksKey(docID))
	pipe.SRem(ctx, s.docsKey(), docID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document from redis: %w", err)
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

// SearchWithStats loads the basin from Redis and runs the in-process
// retrieval pass. Malformed records are skipped, not fatal.
func (s *Store) SearchWithStats(ctx context.Context, query string, settings basin.Settings) (basin.SearchOutcome, error) {
	docIDs, err := s.client.SMembers(ctx, s.docsKey()).Result()
	if err != nil {
		return basin.SearchOutcome{}, fmt.Errorf("failed to list basin documents: %w", err)
	}

	var docs []basin.DocumentMeta
	chunks := make(map[string][]basin.Chunk)

	for _, id := range docIDs {
		data, err := s.client.Get(ctx, s.docKey(id)).Bytes()
		if err != nil {
			if err == redis.Nil {
				// Expired document still indexed; skip.
				continue
			}
			return basin.SearchOutcome{}, fmt.Errorf("failed to load document %s: %w", id, err)
		}

		var doc basin.DocumentMeta
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Warn("redis basin: skipping malformed document record %s: %v", id, err)
			continue
		}
		docs = append(docs, doc)

		rawChunks, err := s.client.LRange(ctx, s.chunksKey(id), 0, -1).Result()
		if err != nil {
			return basin.SearchOutcome{}, fmt.Errorf("failed to load chunks for %s: %w", id, err)
		}
		for _, raw := range rawChunks {
			var c basin.Chunk
			if err := json.Unmarshal([]byte(raw), &c); err != nil {
				log.Warn("redis basin: skipping malformed chunk in %s: %v", id, err)
				continue
			}
			if c.DocTitle == "" {
				c.DocTitle = doc.Title
			}
			chunks[id] = append(chunks[id], c)
		}
	}

	return basin.SearchCorpus(query, docs, chunks, settings), nil
}
