package mcp

import (
	"context"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results  []domain.SearchResult
	answer   *domain.Answer
	err      error
	gotQuery string
	gotTopK  int
}

func (m *mockQueryService) Search(
	_ context.Context,
	query string,
	topK int,
) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotTopK = topK
	return m.results, m.err
}

func (m *mockQueryService) Answer(
	_ context.Context,
	_ string,
	_ *domain.History,
) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockIndexerService is a mock implementation of driving.IndexerService.
type mockIndexerService struct {
	state domain.PipelineState
	stats driving.IndexStats
	docs  []driving.DocumentRef
	err   error
}

func (m *mockIndexerService) Build(_ context.Context) error         { return m.err }
func (m *mockIndexerService) LoadPersisted(_ context.Context) error { return m.err }
func (m *mockIndexerService) State() domain.PipelineState           { return m.state }
func (m *mockIndexerService) Stats() driving.IndexStats             { return m.stats }
func (m *mockIndexerService) Documents() []driving.DocumentRef      { return m.docs }
