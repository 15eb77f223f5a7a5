package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index state and contents",
	Long: `Shows the pipeline state, index statistics, and the indexed documents
with their chunk counts.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	// Best effort: show the persisted index when nothing is published
	// yet. Status is read-only and never rebuilds; an unusable snapshot
	// is reported instead of silently re-embedding the corpus.
	if !indexerService.State().CanServe() {
		if err := indexerService.LoadPersisted(cmd.Context()); err != nil && !errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("Persisted index unusable: %v\n", err)
		}
	}

	state := indexerService.State()
	cmd.Printf("State: %s\n", state)
	if !state.CanServe() {
		cmd.Println("Run 'askdocs index' to build the index.")
		return nil
	}

	stats := indexerService.Stats()
	cmd.Printf("Documents: %d, Chunks: %d\n", stats.Documents, stats.Chunks)
	cmd.Printf("Model: %s (%d dimensions)\n", stats.Model, stats.Dimensions)
	cmd.Println()
	for _, doc := range indexerService.Documents() {
		cmd.Printf("  %s (%d chunks)\n", doc.ID, doc.Chunks)
	}
	return nil
}
