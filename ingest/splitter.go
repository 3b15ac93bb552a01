// Package ingest prepares raw source material for the knowledge basin:
// converting markdown and HTML to plain text and splitting text into
// chunks sized for lexical retrieval.
package ingest

import (
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/adjusterhq/basin"
)

// Splitter splits text into chunks of a given size, preferring to break
// at a separator boundary.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

// NewSplitter creates a Splitter with the given chunk size and overlap.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separator:    "\n\n",
	}
}

// SplitText splits text into chunks.
func (s *Splitter) SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}

		// Try to break at a separator
		if end < len(text) {
			lastSep := strings.LastIndex(text[start:end], s.Separator)
			if lastSep > 0 {
				end = start + lastSep + len(s.Separator)
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		nextStart := end - s.ChunkOverlap
		if nextStart <= start {
			// If overlap would move us backwards (because the chunk was
			// small), just move forward to the end of the current chunk.
			nextStart = end
		}
		start = nextStart
	}

	return chunks
}

// SplitIntoChunks splits text and wraps each piece as a basin.Chunk for
// the given document. Extra metadata is copied into every chunk alongside
// the chunk_index and chunk_total bookkeeping keys.
func (s *Splitter) SplitIntoChunks(doc basin.DocumentMeta, text string, metadata map[string]any) []basin.Chunk {
	pieces := s.SplitText(text)
	chunks := make([]basin.Chunk, 0, len(pieces))

	for i, piece := range pieces {
		m := make(map[string]any, len(metadata)+2)
		maps.Copy(m, metadata)
		m["chunk_index"] = i
		m["chunk_total"] = len(pieces)

		chunks = append(chunks, basin.Chunk{
			ChunkID:  uuid.NewString(),
			DocID:    doc.ID,
			DocTitle: doc.Title,
			Content:  piece,
			Category: doc.Category,
			Metadata: m,
		})
	}

	return chunks
}
