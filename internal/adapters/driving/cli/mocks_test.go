package cli

import (
	"context"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	err     error
	gotTopK int
}

func (m *mockQueryService) Search(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.gotTopK = topK
	return m.results, m.err
}

func (m *mockQueryService) Answer(_ context.Context, _ string, _ *domain.History) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockIndexerService is a mock implementation of driving.IndexerService.
type mockIndexerService struct {
	state    domain.PipelineState
	stats    driving.IndexStats
	docs     []driving.DocumentRef
	buildErr error
	loadErr  error
	builds   int
}

func (m *mockIndexerService) Build(_ context.Context) error {
	m.builds++
	if m.buildErr != nil {
		return m.buildErr
	}
	m.state = domain.StateReady
	return nil
}

func (m *mockIndexerService) LoadPersisted(_ context.Context) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.state = domain.StateReady
	return nil
}
func (m *mockIndexerService) State() domain.PipelineState           { return m.state }
func (m *mockIndexerService) Stats() driving.IndexStats             { return m.stats }
func (m *mockIndexerService) Documents() []driving.DocumentRef      { return m.docs }

// setupTestServices injects mock services and returns a cleanup function.
func setupTestServices() func() {
	oldQuery := queryService
	oldIndexer := indexerService

	queryService = &mockQueryService{
		results: []domain.SearchResult{
			{
				Chunk: domain.Chunk{
					ID:         "chunk-1",
					DocumentID: "leave.md",
					Content:    "Casual Leave: 12 days per year.",
				},
				Score: 0.95,
			},
		},
		answer: &domain.Answer{
			Text:    "You get 12 casual leave days per year.",
			Sources: []string{"leave.md"},
		},
	}
	indexerService = &mockIndexerService{
		state: domain.StateReady,
		stats: driving.IndexStats{
			Documents:  1,
			Chunks:     1,
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		docs: []driving.DocumentRef{{ID: "leave.md", Chunks: 1}},
	}

	return func() {
		queryService = oldQuery
		indexerService = oldIndexer
	}
}
