package driven

import (
	"context"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

// VectorIndex provides exact nearest-neighbour search over chunk vectors.
// An index is immutable once published: the only mutation path is building
// a fresh index and swapping it in.
type VectorIndex interface {
	// Search returns the k most similar chunks to the query vector,
	// sorted by descending score with ties broken by insertion order.
	// k larger than the index size returns all entries.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of stored vectors.
	Size() int

	// Dimensions returns the vector dimensionality shared by all entries.
	Dimensions() int

	// ModelName returns the embedding model identifier the index was
	// built with.
	ModelName() string

	// Metric returns the similarity metric.
	Metric() domain.Metric

	// Snapshot returns the full index contents for persistence.
	Snapshot() IndexSnapshot
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk payload.
	Chunk domain.Chunk

	// Score is the similarity score; higher is more relevant.
	Score float64
}

// IndexSnapshot is the serialisable unit of index state: the parallel
// chunk payload and vector arrays plus the model identity. Chunks and
// Vectors are in insertion order and always the same length.
type IndexSnapshot struct {
	Model      string
	Dimensions int
	Metric     domain.Metric
	Chunks     []domain.Chunk
	Vectors    [][]float32
}

// IndexFactory materialises a searchable index from snapshot data. The
// build pipeline assembles the snapshot; the factory owns the in-memory
// representation.
type IndexFactory interface {
	// FromSnapshot validates the snapshot and returns a sealed index.
	// Inconsistent data fails with domain.ErrDataIntegrity.
	FromSnapshot(snap IndexSnapshot) (VectorIndex, error)
}

// IndexStore persists an index snapshot so re-embedding is skipped across
// runs.
type IndexStore interface {
	// Save atomically replaces the persisted snapshot.
	Save(ctx context.Context, snap IndexSnapshot) error

	// Load reads the persisted snapshot back. It returns
	// domain.ErrNotFound when nothing has been saved and
	// domain.ErrDataIntegrity when the stored data is truncated,
	// corrupt, or dimensionally inconsistent.
	Load(ctx context.Context) (*IndexSnapshot, error)

	// Close releases resources.
	Close() error
}
