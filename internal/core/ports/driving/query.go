package driving

import (
	"context"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

// QueryService is the public query surface of the core. Any transport
// (CLI, TUI, MCP) exposes exactly these two operations.
type QueryService interface {
	// Search retrieves the topK most relevant chunks for the query.
	// topK <= 0 is rejected with domain.ErrInvalidInput before the
	// embedding provider is invoked. Returns domain.ErrNotReady when no
	// index is published.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// Answer runs the full retrieval-augmented generation path for the
	// question. History may be nil for one-shot questions; when present
	// it is rendered into the prompt but never used for ranking.
	Answer(ctx context.Context, question string, history *domain.History) (*domain.Answer, error)
}

// IndexerService manages the index lifecycle.
type IndexerService interface {
	// Build chunks the corpus, embeds every chunk, and atomically
	// publishes a fresh index, persisting it on success. Concurrent
	// queries observe either the old or the new index, never a partial
	// one.
	Build(ctx context.Context) error

	// LoadPersisted publishes a previously persisted index without
	// re-embedding. Returns domain.ErrNotFound when nothing is persisted
	// and domain.ErrDataIntegrity when the persisted index is unusable.
	LoadPersisted(ctx context.Context) error

	// State reports the pipeline lifecycle state.
	State() domain.PipelineState

	// Stats describes the published index. Zero value when not ready.
	Stats() IndexStats

	// Documents lists the indexed documents with their chunk counts, in
	// first-seen order. Empty when not ready.
	Documents() []DocumentRef
}

// IndexStats summarises a published index.
type IndexStats struct {
	// Documents is the number of distinct source documents.
	Documents int

	// Chunks is the number of indexed chunks.
	Chunks int

	// Model is the embedding model identifier.
	Model string

	// Dimensions is the embedding dimensionality.
	Dimensions int
}

// DocumentRef identifies an indexed document.
type DocumentRef struct {
	// ID is the document source identifier.
	ID string

	// Chunks is the number of chunks produced from the document.
	Chunks int
}
