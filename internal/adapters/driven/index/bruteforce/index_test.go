package bruteforce

import (
	"context"
	"errors"
	"testing"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
)

func buildIndex(t *testing.T, metric domain.Metric, vectors ...[]float32) *Index {
	t.Helper()
	idx, err := New("nomic-embed-text", len(vectors[0]), metric)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, vec := range vectors {
		chunk := domain.Chunk{ID: string(rune('a' + i)), DocumentID: "doc.md", Position: i}
		if err := idx.Add(chunk, vec); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	idx.Seal()
	return idx
}

func hitIDs(hits []driven.VectorHit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Chunk.ID
	}
	return ids
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New("", 3, domain.MetricCosine); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("empty model: expected ErrConfig, got %v", err)
	}
	if _, err := New("m", 0, domain.MetricCosine); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("zero dims: expected ErrConfig, got %v", err)
	}
	if _, err := New("m", 3, domain.Metric("manhattan")); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("bad metric: expected ErrConfig, got %v", err)
	}
}

func TestSearchCosineOrder(t *testing.T) {
	idx := buildIndex(t, domain.MetricCosine,
		[]float32{1, 0, 0},  // a: identical direction
		[]float32{0, 1, 0},  // b: orthogonal
		[]float32{1, 1, 0},  // c: 45 degrees
		[]float32{-1, 0, 0}, // d: opposite
	)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 4)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"a", "c", "b", "d"}
	got := hitIDs(hits)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("scores not descending: %v then %v", hits[0].Score, hits[1].Score)
	}
}

func TestSearchL2Order(t *testing.T) {
	idx := buildIndex(t, domain.MetricL2,
		[]float32{0, 0}, // a: distance 0
		[]float32{3, 4}, // b: distance 5
		[]float32{1, 0}, // c: distance 1
	)

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"a", "c", "b"}
	got := hitIDs(hits)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
	if hits[0].Score != 0 {
		t.Errorf("exact match score %v, want 0", hits[0].Score)
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	// Three identical vectors score identically; insertion order must hold.
	idx := buildIndex(t, domain.MetricCosine,
		[]float32{1, 1},
		[]float32{1, 1},
		[]float32{1, 1},
	)

	hits, err := idx.Search(context.Background(), []float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"a", "b", "c"}
	got := hitIDs(hits)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order %v, want %v", got, want)
		}
	}
}

func TestSearchKLargerThanSize(t *testing.T) {
	idx := buildIndex(t, domain.MetricCosine, []float32{1, 0}, []float32{0, 1})

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected all 2 entries, got %d", len(hits))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := New("nomic-embed-text", 2, domain.MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	idx.Seal()

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	idx := buildIndex(t, domain.MetricCosine, []float32{1, 0})

	if _, err := idx.Search(context.Background(), []float32{1, 0, 0}, 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("dimension mismatch: expected ErrInvalidInput, got %v", err)
	}
	if _, err := idx.Search(context.Background(), []float32{1, 0}, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("k=0: expected ErrInvalidInput, got %v", err)
	}
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	idx, err := New("nomic-embed-text", 3, domain.MetricCosine)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Add(domain.Chunk{ID: "a"}, []float32{1, 2}); err == nil {
		t.Error("expected error adding 2-dim vector to 3-dim index")
	}
}

func TestAddRejectedAfterSeal(t *testing.T) {
	idx := buildIndex(t, domain.MetricCosine, []float32{1, 0})
	if err := idx.Add(domain.Chunk{ID: "z"}, []float32{0, 1}); err == nil {
		t.Error("expected error adding to sealed index")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	idx := buildIndex(t, domain.MetricCosine,
		[]float32{1, 0},
		[]float32{0, 1},
	)

	restored, err := FromSnapshot(idx.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if restored.Size() != idx.Size() || restored.ModelName() != idx.ModelName() {
		t.Fatalf("restored index differs: size %d model %q", restored.Size(), restored.ModelName())
	}

	orig, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	again, err := restored.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range orig {
		if orig[i].Chunk.ID != again[i].Chunk.ID || orig[i].Score != again[i].Score {
			t.Errorf("hit %d differs after round trip", i)
		}
	}
}

func TestFromSnapshotRejectsInconsistentState(t *testing.T) {
	snap := driven.IndexSnapshot{
		Model:      "nomic-embed-text",
		Dimensions: 2,
		Metric:     domain.MetricCosine,
		Chunks:     []domain.Chunk{{ID: "a"}, {ID: "b"}},
		Vectors:    [][]float32{{1, 0}},
	}
	if _, err := FromSnapshot(snap); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity, got %v", err)
	}

	snap.Vectors = [][]float32{{1, 0}, {1, 2, 3}}
	if _, err := FromSnapshot(snap); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("wrong dims: expected ErrDataIntegrity, got %v", err)
	}
}
