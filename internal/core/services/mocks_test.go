package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
)

// mockLoader implements driven.CorpusLoader.
type mockLoader struct {
	docs []domain.Document
	err  error
}

func (m *mockLoader) Load(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// mockEmbedder implements driven.EmbeddingService with canned vectors
// keyed by input text.
type mockEmbedder struct {
	model      string
	dims       int
	vectors    map[string][]float32
	err        error
	embedCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	vec := make([]float32, m.dims)
	vec[0] = 1
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService and records the last chat request.
type mockLLM struct {
	reply       string
	err         error
	gotMessages []driven.ChatMessage
	gotOpts     driven.ChatOptions
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.gotMessages = messages
	m.gotOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// fakeIndexFactory implements driven.IndexFactory with a dot-product
// index, enough for exercising the pipeline without the real adapter.
type fakeIndexFactory struct {
	err error
}

func (f *fakeIndexFactory) FromSnapshot(snap driven.IndexSnapshot) (driven.VectorIndex, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(snap.Chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("%w: chunk/vector count mismatch", domain.ErrDataIntegrity)
	}
	return &fakeIndex{snap: snap}, nil
}

type fakeIndex struct {
	snap driven.IndexSnapshot
}

func (f *fakeIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != f.snap.Dimensions {
		return nil, fmt.Errorf("%w: dimension mismatch", domain.ErrInvalidInput)
	}
	hits := make([]driven.VectorHit, len(f.snap.Chunks))
	for i, vec := range f.snap.Vectors {
		var dot float64
		for j := range vec {
			dot += float64(vec[j]) * float64(query[j])
		}
		hits[i] = driven.VectorHit{Chunk: f.snap.Chunks[i], Score: dot}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (f *fakeIndex) Size() int                     { return len(f.snap.Chunks) }
func (f *fakeIndex) Dimensions() int               { return f.snap.Dimensions }
func (f *fakeIndex) ModelName() string             { return f.snap.Model }
func (f *fakeIndex) Metric() domain.Metric         { return f.snap.Metric }
func (f *fakeIndex) Snapshot() driven.IndexSnapshot { return f.snap }

// mockStore implements driven.IndexStore.
type mockStore struct {
	snap    *driven.IndexSnapshot
	loadErr error
	saveErr error
	saved   *driven.IndexSnapshot
}

func (m *mockStore) Save(_ context.Context, snap driven.IndexSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &snap
	return nil
}

func (m *mockStore) Load(_ context.Context) (*driven.IndexSnapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, domain.ErrNotFound
	}
	return m.snap, nil
}

func (m *mockStore) Close() error { return nil }
