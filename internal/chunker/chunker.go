// Package chunker splits document text into overlapping fixed-size chunks
// along preferred boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

// Default chunking parameters.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// separators is the boundary preference order: paragraph break, line
// break, word break. A window with none of these is cut mid-word.
var separators = []string{"\n\n", "\n", " "}

// Splitter produces overlapping chunks whose length never exceeds the
// configured chunk size. Each chunk after the first starts with exactly
// the trailing overlap characters of the previous chunk, so concatenating
// the chunks and stripping the overlap from every non-first chunk
// reproduces the source text byte for byte.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a splitter. The overlap must be smaller than the chunk size;
// an overlap that reaches it would never converge, so it is rejected here
// rather than clamped.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfig, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrConfig, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrConfig, overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap length.
func (s *Splitter) Overlap() int { return s.overlap }

// Split chunks one document. An empty document yields no chunks; a
// document no longer than the chunk size yields exactly one.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	content := doc.Content
	if content == "" {
		return nil
	}
	if len(content) <= s.chunkSize {
		return []domain.Chunk{s.newChunk(doc.ID, content, 0)}
	}

	var chunks []domain.Chunk

	// First chunk: up to chunkSize, but it must end past the overlap so
	// the second chunk has a full overlap prefix to borrow.
	end := cut(content, 0, s.chunkSize, s.overlap+1)
	chunks = append(chunks, s.newChunk(doc.ID, content[:end], 0))

	// Every later chunk prepends the trailing overlap of the previous
	// span, so its fresh span is capped at chunkSize-overlap.
	stride := s.chunkSize - s.overlap
	for end < len(content) {
		start := end
		end = cut(content, start, start+stride, start+1)
		text := content[start-s.overlap : end]
		chunks = append(chunks, s.newChunk(doc.ID, text, len(chunks)))
	}

	return chunks
}

// SplitAll chunks every document in order.
func (s *Splitter) SplitAll(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, s.Split(doc)...)
	}
	return chunks
}

func (s *Splitter) newChunk(docID, text string, position int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Content:    text,
		Position:   position,
	}
}

// cut picks the end of the span starting at start. It prefers the latest
// boundary within (start, maxEnd], falling through the separator
// preference order, and hard-cuts at maxEnd when no boundary yields an
// end of at least minEnd.
func cut(content string, start, maxEnd, minEnd int) int {
	if maxEnd >= len(content) {
		return len(content)
	}
	window := content[start:maxEnd]
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		// Keep the separator with the left span.
		end := start + idx + len(sep)
		if end >= minEnd {
			return end
		}
	}
	return maxEnd
}
