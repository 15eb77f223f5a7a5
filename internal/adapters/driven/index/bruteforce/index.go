// Package bruteforce provides an exact in-memory vector index. Every
// query scores every stored vector; at knowledge-base scale (hundreds to
// low thousands of chunks) this is fast, deterministic, and has no recall
// loss, unlike approximate structures.
package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
)

// Ensure the adapter implements its interfaces.
var (
	_ driven.VectorIndex  = (*Index)(nil)
	_ driven.IndexFactory = (*Factory)(nil)
)

// Factory builds brute-force indexes from snapshots.
type Factory struct{}

// NewFactory creates an index factory.
func NewFactory() *Factory { return &Factory{} }

// FromSnapshot validates the snapshot and returns a sealed index.
func (Factory) FromSnapshot(snap driven.IndexSnapshot) (driven.VectorIndex, error) {
	return FromSnapshot(snap)
}

// Index stores chunk vectors in parallel slices in insertion order.
// It is immutable after Seal and safe for concurrent reads.
type Index struct {
	model  string
	dims   int
	metric domain.Metric

	chunks  []domain.Chunk
	vectors [][]float32
	// norms caches the L2 norm of each vector for cosine scoring.
	norms []float64

	sealed bool
}

// New creates an empty index bound to an embedding model and metric.
func New(model string, dims int, metric domain.Metric) (*Index, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: index requires an embedding model name", domain.ErrConfig)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: index dimensions must be positive, got %d", domain.ErrConfig, dims)
	}
	if !metric.IsValid() {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrConfig, metric)
	}
	return &Index{model: model, dims: dims, metric: metric}, nil
}

// FromSnapshot rebuilds an index from persisted state, validating that
// every vector matches the recorded dimensionality.
func FromSnapshot(snap driven.IndexSnapshot) (*Index, error) {
	idx, err := New(snap.Model, snap.Dimensions, snap.Metric)
	if err != nil {
		return nil, err
	}
	if len(snap.Chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrDataIntegrity, len(snap.Chunks), len(snap.Vectors))
	}
	for i, vec := range snap.Vectors {
		if err := idx.Add(snap.Chunks[i], vec); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrDataIntegrity, i, err)
		}
	}
	idx.Seal()
	return idx, nil
}

// Add appends a chunk vector. It fails on a dimension mismatch and on an
// already sealed index.
func (idx *Index) Add(chunk domain.Chunk, vector []float32) error {
	if idx.sealed {
		return fmt.Errorf("index is sealed")
	}
	if len(vector) != idx.dims {
		return fmt.Errorf("vector has %d dimensions, index expects %d", len(vector), idx.dims)
	}
	idx.chunks = append(idx.chunks, chunk)
	idx.vectors = append(idx.vectors, vector)
	idx.norms = append(idx.norms, norm(vector))
	return nil
}

// Seal marks the index complete. A sealed index rejects further Adds and
// is safe to share across goroutines.
func (idx *Index) Seal() { idx.sealed = true }

// Search scores every stored vector against the query and returns the top
// k hits, sorted by descending score. Equal scores keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrInvalidInput, len(query), idx.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	hits := make([]driven.VectorHit, 0, len(idx.chunks))
	queryNorm := norm(query)
	for i, vec := range idx.vectors {
		hits = append(hits, driven.VectorHit{
			Chunk: idx.chunks[i],
			Score: idx.score(query, queryNorm, vec, idx.norms[i]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of stored vectors.
func (idx *Index) Size() int { return len(idx.chunks) }

// Dimensions returns the vector dimensionality.
func (idx *Index) Dimensions() int { return idx.dims }

// ModelName returns the embedding model the index was built with.
func (idx *Index) ModelName() string { return idx.model }

// Metric returns the similarity metric.
func (idx *Index) Metric() domain.Metric { return idx.metric }

// Snapshot returns the index contents in insertion order.
func (idx *Index) Snapshot() driven.IndexSnapshot {
	return driven.IndexSnapshot{
		Model:      idx.model,
		Dimensions: idx.dims,
		Metric:     idx.metric,
		Chunks:     idx.chunks,
		Vectors:    idx.vectors,
	}
}

// score maps both metrics onto higher-is-better: cosine similarity as-is,
// L2 as the negated squared distance.
func (idx *Index) score(query []float32, queryNorm float64, vec []float32, vecNorm float64) float64 {
	switch idx.metric {
	case domain.MetricL2:
		var sum float64
		for i := range vec {
			d := float64(query[i]) - float64(vec[i])
			sum += d * d
		}
		return -sum
	default:
		if queryNorm == 0 || vecNorm == 0 {
			return 0
		}
		var dot float64
		for i := range vec {
			dot += float64(query[i]) * float64(vec[i])
		}
		return dot / (queryNorm * vecNorm)
	}
}

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
