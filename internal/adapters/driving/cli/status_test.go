package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
)

func TestStatusCmd_ShowsStatsWhenReady(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "State: ready")
	assert.Contains(t, buf.String(), "Documents: 1, Chunks: 1")
	assert.Contains(t, buf.String(), "leave.md (1 chunks)")
}

func TestStatusCmd_SuggestsBuildWhenNotReady(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &mockIndexerService{
		state:   domain.StateUninitialized,
		loadErr: domain.ErrNotFound,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "State: uninitialized")
	assert.Contains(t, buf.String(), "Run 'askdocs index'")
}

func TestStatusCmd_CorruptSnapshotIsReportedNotRebuilt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockIndexerService{
		state:   domain.StateUninitialized,
		loadErr: domain.ErrDataIntegrity,
	}
	indexerService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Zero(t, mock.builds, "status must not rebuild the index")
	assert.Contains(t, buf.String(), "Persisted index unusable")
	assert.Contains(t, buf.String(), "Run 'askdocs index'")
}

func TestStatusCmd_LoadsPersistedIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexerService = &mockIndexerService{
		state: domain.StateUninitialized,
		stats: driving.IndexStats{Documents: 1, Chunks: 1, Model: "nomic-embed-text", Dimensions: 768},
		docs:  []driving.DocumentRef{{ID: "leave.md", Chunks: 1}},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "State: ready")
	assert.Contains(t, buf.String(), "leave.md (1 chunks)")
}
