package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot() driven.IndexSnapshot {
	return driven.IndexSnapshot{
		Model:      "nomic-embed-text",
		Dimensions: 3,
		Metric:     domain.MetricCosine,
		Chunks: []domain.Chunk{
			{ID: "c1", DocumentID: "leave.md", Content: "Casual Leave: 12 days.", Position: 0},
			{ID: "c2", DocumentID: "leave.md", Content: "Sick Leave: 10 days.", Position: 1},
			{ID: "c3", DocumentID: "remote.md", Content: "Remote work policy.", Position: 0},
		},
		Vectors: [][]float32{
			{0.1, 0.2, 0.3},
			{-0.5, 0.25, 0.125},
			{1, 0, -1},
		},
	}
}

func TestLoadBeforeSave(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	snap := testSnapshot()

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Model != snap.Model || got.Dimensions != snap.Dimensions || got.Metric != snap.Metric {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if len(got.Chunks) != len(snap.Chunks) {
		t.Fatalf("got %d chunks, want %d", len(got.Chunks), len(snap.Chunks))
	}
	for i := range snap.Chunks {
		if got.Chunks[i] != snap.Chunks[i] {
			t.Errorf("chunk %d: got %+v, want %+v", i, got.Chunks[i], snap.Chunks[i])
		}
		for j := range snap.Vectors[i] {
			// Float32 round trip through the blob must be bit-exact.
			if got.Vectors[i][j] != snap.Vectors[i][j] {
				t.Errorf("vector %d[%d]: got %v, want %v", i, j, got.Vectors[i][j], snap.Vectors[i][j])
			}
		}
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := driven.IndexSnapshot{
		Model:      "text-embedding-3-small",
		Dimensions: 2,
		Metric:     domain.MetricL2,
		Chunks:     []domain.Chunk{{ID: "x", DocumentID: "new.md", Content: "fresh", Position: 0}},
		Vectors:    [][]float32{{0.5, -0.5}},
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Model != "text-embedding-3-small" || len(got.Chunks) != 1 {
		t.Errorf("old snapshot leaked through: %+v", got)
	}
}

func TestSaveRejectsMismatchedLengths(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()
	snap.Vectors = snap.Vectors[:2]

	err := store.Save(context.Background(), snap)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadDetectsTruncatedEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Corrupt one blob behind the store's back.
	if _, err := store.db.Exec("UPDATE chunks SET embedding = X'0000' WHERE id = 'c2'"); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	_, err := store.Load(ctx)
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestLoadDetectsInvalidMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.db.Exec("UPDATE index_meta SET metric = 'bogus'"); err != nil {
		t.Fatalf("corrupting metadata: %v", err)
	}

	_, err := store.Load(ctx)
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Errorf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestReopenPersistsAcrossConnections(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(got.Chunks) != 3 {
		t.Errorf("got %d chunks after reopen, want 3", len(got.Chunks))
	}
}
