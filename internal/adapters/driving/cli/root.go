// Package cli provides the askdocs command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdocs-ai/askdocs-cli/internal/adapters/driven/ai"
	"github.com/askdocs-ai/askdocs-cli/internal/adapters/driven/index/bruteforce"
	"github.com/askdocs-ai/askdocs-cli/internal/adapters/driven/index/sqlite"
	"github.com/askdocs-ai/askdocs-cli/internal/config"
	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
	"github.com/askdocs-ai/askdocs-cli/internal/core/services"
	"github.com/askdocs-ai/askdocs-cli/internal/corpus"
	"github.com/askdocs-ai/askdocs-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// Wired services. Tests inject mocks directly; initServices leaves
// pre-set services alone.
var (
	appConfig      *config.Config
	aiServices     *ai.Services
	indexStore     *sqlite.Store
	corpusLoader   *corpus.Loader
	queryService   driving.QueryService
	indexerService driving.IndexerService
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about a local document corpus",
	Long: `askdocs indexes a directory of Markdown and text files and answers
questions about them using retrieval-augmented generation. Answers are
grounded in the indexed documents and cite their sources.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if !needsServices(cmd) {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.askdocs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command and releases provider connections on exit.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// needsServices reports whether the command requires the wired pipeline.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}

// initServices wires the full pipeline from configuration: providers,
// index store, corpus loader, and the query pipeline.
func initServices() error {
	if queryService != nil || indexerService != nil {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	svcs, err := ai.NewServices(cfg.EmbeddingSettings(), cfg.LLMSettings())
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		svcs.Close()
		return fmt.Errorf("opening index store: %w", err)
	}

	loader := corpus.NewLoader(cfg.CorpusDir)

	pipeline, err := services.NewPipeline(services.PipelineConfig{
		Loader:     loader,
		Embedder:   svcs.Embedding,
		LLM:        svcs.LLM,
		Indexes:    bruteforce.NewFactory(),
		Store:      store,
		Retrieval:  cfg.RetrievalSettings(),
		Generation: cfg.LLMSettings(),
	})
	if err != nil {
		store.Close() //nolint:errcheck
		svcs.Close()
		return err
	}

	appConfig = cfg
	aiServices = svcs
	indexStore = store
	corpusLoader = loader
	queryService = pipeline
	indexerService = pipeline
	return nil
}

// closeServices releases provider and store connections.
func closeServices() {
	if aiServices != nil {
		aiServices.Close()
		aiServices = nil
	}
	if indexStore != nil {
		indexStore.Close() //nolint:errcheck
		indexStore = nil
	}
}

// ensureIndex publishes the persisted index when the pipeline is not
// serving yet.
func ensureIndex(ctx context.Context) error {
	if indexerService.State().CanServe() {
		return nil
	}

	err := indexerService.LoadPersisted(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("no index found, run 'askdocs index' first")
	case errors.Is(err, domain.ErrModelMismatch):
		return fmt.Errorf("%w; run 'askdocs index' to rebuild", err)
	case errors.Is(err, domain.ErrDataIntegrity):
		logger.Warn("Persisted index unusable (%v); rebuilding", err)
		return indexerService.Build(ctx)
	default:
		return err
	}
}
