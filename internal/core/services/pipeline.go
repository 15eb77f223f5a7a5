package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/askdocs-ai/askdocs-cli/internal/chunker"
	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
	"github.com/askdocs-ai/askdocs-cli/internal/logger"
)

// Ensure Pipeline implements the driving ports.
var (
	_ driving.QueryService   = (*Pipeline)(nil)
	_ driving.IndexerService = (*Pipeline)(nil)
)

// PipelineConfig wires the pipeline's dependencies.
type PipelineConfig struct {
	// Loader reads the document corpus.
	Loader driven.CorpusLoader

	// Embedder turns text into vectors. Its model name is recorded in the
	// index and checked on every query.
	Embedder driven.EmbeddingService

	// LLM generates answers.
	LLM driven.LLMService

	// Indexes materialises searchable indexes from snapshots.
	Indexes driven.IndexFactory

	// Store persists index snapshots across runs. Optional; without it
	// every start requires a rebuild.
	Store driven.IndexStore

	// Retrieval holds chunking and retrieval parameters.
	Retrieval domain.RetrievalSettings

	// Generation supplies temperature and answer length bounds.
	Generation domain.LLMSettings
}

// Pipeline owns the index lifecycle and serves queries against the
// published index. The published index is immutable; a rebuild prepares a
// complete replacement and swaps it in, so concurrent readers always see
// a consistent index.
type Pipeline struct {
	loader    driven.CorpusLoader
	splitter  *chunker.Splitter
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	indexes   driven.IndexFactory
	store     driven.IndexStore
	retrieval domain.RetrievalSettings
	assembler *Assembler

	temperature float64
	maxTokens   int

	mu    sync.RWMutex
	state domain.PipelineState
	index driven.VectorIndex
	docs  []driving.DocumentRef
}

// NewPipeline validates the configuration and creates an uninitialized
// pipeline. No index exists until Build or LoadPersisted succeeds.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Loader == nil || cfg.Embedder == nil || cfg.LLM == nil || cfg.Indexes == nil {
		return nil, fmt.Errorf("%w: pipeline requires loader, embedder, llm, and index factory", domain.ErrConfig)
	}
	if err := cfg.Retrieval.Validate(); err != nil {
		return nil, err
	}
	splitter, err := chunker.New(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		loader:      cfg.Loader,
		splitter:    splitter,
		embedder:    cfg.Embedder,
		llm:         cfg.LLM,
		indexes:     cfg.Indexes,
		store:       cfg.Store,
		retrieval:   cfg.Retrieval,
		assembler:   NewAssembler(cfg.Retrieval.ContextBudget),
		temperature: cfg.Generation.Temperature,
		maxTokens:   cfg.Generation.MaxTokens,
		state:       domain.StateUninitialized,
	}, nil
}

// Build reads the corpus, chunks and embeds it, and atomically publishes
// a fresh index. On success the snapshot is persisted when a store is
// configured. A failed rebuild keeps serving the previously published
// index; a failed first build leaves the pipeline failed.
func (p *Pipeline) Build(ctx context.Context) error {
	p.mu.Lock()
	if p.state == domain.StateBuilding {
		p.mu.Unlock()
		return fmt.Errorf("index build already in progress")
	}
	p.state = domain.StateBuilding
	p.mu.Unlock()

	start := time.Now()
	logger.Section("Index Build")

	docs, err := p.loader.Load(ctx)
	if err != nil {
		return p.buildFailed(err)
	}

	chunks := p.splitter.SplitAll(docs)
	if len(chunks) == 0 {
		return p.buildFailed(fmt.Errorf("%w: corpus produced no chunks", domain.ErrCorpus))
	}
	logger.Info("Chunked %d documents into %d chunks", len(docs), len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return p.buildFailed(fmt.Errorf("%w: embedding corpus: %w", domain.ErrProvider, err))
	}
	if len(vectors) != len(chunks) {
		return p.buildFailed(fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrProvider, len(vectors), len(chunks)))
	}

	snap := driven.IndexSnapshot{
		Model:      p.embedder.ModelName(),
		Dimensions: len(vectors[0]),
		Metric:     p.retrieval.Metric,
		Chunks:     chunks,
		Vectors:    vectors,
	}
	index, err := p.indexes.FromSnapshot(snap)
	if err != nil {
		return p.buildFailed(err)
	}

	p.publish(index, chunks)
	logger.Info("Index ready: %d chunks, %d dimensions, %s", index.Size(), index.Dimensions(), time.Since(start))

	if p.store != nil {
		// The in-memory index is already live; a persistence failure only
		// costs a re-embed on the next start.
		if err := p.store.Save(ctx, snap); err != nil {
			logger.Warn("Failed to persist index: %v", err)
		}
	}
	return nil
}

// LoadPersisted publishes a previously persisted index without
// re-embedding. The snapshot must have been built with the configured
// embedding model; anything else forces an explicit rebuild.
func (p *Pipeline) LoadPersisted(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("%w: no index store configured", domain.ErrConfig)
	}

	snap, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	if snap.Model != p.embedder.ModelName() {
		return fmt.Errorf("%w: persisted index was built with model %q, configured model is %q",
			domain.ErrModelMismatch, snap.Model, p.embedder.ModelName())
	}
	if snap.Metric != p.retrieval.Metric {
		logger.Warn("Persisted index uses metric %s, config says %s; serving persisted metric",
			snap.Metric, p.retrieval.Metric)
	}

	index, err := p.indexes.FromSnapshot(*snap)
	if err != nil {
		return err
	}

	p.publish(index, snap.Chunks)
	logger.Info("Loaded persisted index: %d chunks, model %s", index.Size(), index.ModelName())
	return nil
}

// publish swaps in a new index and recomputes document stats.
func (p *Pipeline) publish(index driven.VectorIndex, chunks []domain.Chunk) {
	counts := make(map[string]int, len(chunks))
	var refs []driving.DocumentRef
	for _, c := range chunks {
		if counts[c.DocumentID] == 0 {
			refs = append(refs, driving.DocumentRef{ID: c.DocumentID})
		}
		counts[c.DocumentID]++
	}
	for i := range refs {
		refs[i].Chunks = counts[refs[i].ID]
	}

	p.mu.Lock()
	p.index = index
	p.docs = refs
	p.state = domain.StateReady
	p.mu.Unlock()
}

// buildFailed records a failed build. An existing published index keeps
// serving; without one the pipeline is failed until the next Build.
func (p *Pipeline) buildFailed(err error) error {
	p.mu.Lock()
	if p.index != nil {
		p.state = domain.StateReady
	} else {
		p.state = domain.StateFailed
	}
	p.mu.Unlock()
	logger.Warn("Index build failed: %v", err)
	return err
}

// State reports the pipeline lifecycle state.
func (p *Pipeline) State() domain.PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Stats describes the published index.
func (p *Pipeline) Stats() driving.IndexStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.index == nil {
		return driving.IndexStats{}
	}
	return driving.IndexStats{
		Documents:  len(p.docs),
		Chunks:     p.index.Size(),
		Model:      p.index.ModelName(),
		Dimensions: p.index.Dimensions(),
	}
}

// Documents lists the indexed documents with their chunk counts.
func (p *Pipeline) Documents() []driving.DocumentRef {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]driving.DocumentRef, len(p.docs))
	copy(out, p.docs)
	return out
}

// Search retrieves the topK most relevant chunks for the query. A
// rebuild in progress does not block queries; they run against the
// still-published index until the replacement is swapped in.
func (p *Pipeline) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	// Input validation happens before any provider call is made.
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}

	p.mu.RLock()
	index := p.index
	p.mu.RUnlock()

	if index == nil {
		return nil, fmt.Errorf("%w: run a build first", domain.ErrNotReady)
	}
	if model := p.embedder.ModelName(); model != index.ModelName() {
		return nil, fmt.Errorf("%w: index was built with model %q, query model is %q",
			domain.ErrModelMismatch, index.ModelName(), model)
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", domain.ErrProvider, err)
	}

	hits, err := index.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{Chunk: h.Chunk, Score: h.Score}
	}
	logger.Debug("Query %q returned %d results", query, len(results))
	return results, nil
}

// Answer runs the full retrieval-augmented generation path: retrieve,
// assemble the grounded prompt, generate. An empty retrieval still
// produces an answer; the prompt then instructs the model to say the
// knowledge base has no coverage.
func (p *Pipeline) Answer(ctx context.Context, question string, history *domain.History) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question must not be empty", domain.ErrInvalidInput)
	}

	results, err := p.Search(ctx, question, p.retrieval.TopK)
	if err != nil {
		return nil, err
	}

	contextBlock := p.assembler.Context(results)
	messages := p.assembler.Messages(question, contextBlock, history)

	text, err := p.llm.Chat(ctx, messages, driven.ChatOptions{
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generating answer: %w", domain.ErrProvider, err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: Sources(results),
	}, nil
}
