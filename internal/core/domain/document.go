package domain

import "time"

// Document is an immutable unit of source text from the corpus.
// Documents are re-read in full whenever the index is rebuilt; there is no
// partial update path.
type Document struct {
	// ID is the stable source identifier (relative file path within the
	// corpus directory).
	ID string

	// Path is the absolute location the document was read from.
	Path string

	// Content is the full text of the document.
	Content string

	// ModTime is the file modification time at load.
	ModTime time.Time
}

// Chunk is a contiguous span of one document and the atomic retrieval unit.
// Chunks are immutable once created; the full set is rebuilt from scratch
// whenever the corpus changes.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID is the source identifier of the owning document. It is a
	// lookup reference only; the chunk does not own the document.
	DocumentID string

	// Content is the chunk text, overlap included.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// Length returns the chunk length in bytes.
func (c Chunk) Length() int {
	return len(c.Content)
}

// SearchResult is a single retrieval hit: a chunk with its similarity score.
// Results are ephemeral, constructed per query and discarded after the
// answer is generated.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score. Higher is more relevant regardless of
	// the configured distance metric.
	Score float64
}

// Answer is the result of a retrieval-augmented generation request.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the distinct document identifiers of the chunks the
	// answer was grounded on, in rank order.
	Sources []string
}
