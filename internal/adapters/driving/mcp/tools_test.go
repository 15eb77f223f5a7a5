package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns retrieved passages", func(t *testing.T) {
		mockQuery := &mockQueryService{
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
		}

		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "casual leave", TopK: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Len(t, output.Results, 1)
		assert.Equal(t, "chunk-1", output.Results[0].ChunkID)
		assert.Equal(t, "leave.md", output.Results[0].DocumentID)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, "Casual Leave: 12 days per year.", output.Results[0].Content)
		assert.Equal(t, 5, mockQuery.gotTopK)
	})

	t.Run("omitted top_k defaults to 3", func(t *testing.T) {
		mockQuery := &mockQueryService{}
		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, defaultTopK, mockQuery.gotTopK)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockQuery := &mockQueryService{
			err: errors.New("search failed"),
		}

		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		mockQuery := &mockQueryService{
			answer: &domain.Answer{
				Text:    "You get 12 casual leave days per year.",
				Sources: []string{"leave.md"},
			},
		}

		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AnswerInput{Question: "How many casual leave days do I get?"}
		_, output, err := server.handleAnswer(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "You get 12 casual leave days per year.", output.Answer)
		assert.Equal(t, []string{"leave.md"}, output.Sources)
	})

	t.Run("returns error on generation failure", func(t *testing.T) {
		mockQuery := &mockQueryService{
			err: errors.New("llm unavailable"),
		}

		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AnswerInput{Question: "anything"}
		_, _, err = server.handleAnswer(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm unavailable")
	})
}
