package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/askdocs-ai/askdocs-cli/internal/corpus"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the corpus",
	Long: `Reads every document in the corpus directory, splits it into chunks,
embeds the chunks, and publishes a fresh index. The index is persisted so
later runs can serve queries without re-embedding.

With --watch the command keeps running and rebuilds the index whenever
the corpus directory changes.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild on corpus changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := cmd.Context()
	if err := indexerService.Build(ctx); err != nil {
		return err
	}
	printIndexStats(cmd)

	if !indexWatch {
		return nil
	}
	if corpusLoader == nil {
		return errors.New("corpus loader not configured")
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	watcher := corpus.NewWatcher(corpusLoader, corpus.DefaultDebounce)
	return watcher.Run(ctx, func(ctx context.Context) {
		if err := indexerService.Build(ctx); err != nil {
			cmd.PrintErrf("Rebuild failed: %v\n", err)
			return
		}
		printIndexStats(cmd)
	})
}

func printIndexStats(cmd *cobra.Command) {
	stats := indexerService.Stats()
	cmd.Printf("Indexed %d documents (%d chunks) with %s\n",
		stats.Documents, stats.Chunks, stats.Model)
}
