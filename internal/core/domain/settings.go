package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// Metric selects the similarity metric of the vector index. Both metrics
// are rank-equivalent for L2-normalised embeddings; the choice is exposed
// rather than hidden behind a default.
type Metric string

// Available metrics.
const (
	// MetricCosine scores by cosine similarity (higher is better).
	MetricCosine Metric = "cosine"

	// MetricL2 scores by negated squared Euclidean distance (higher is
	// better, zero is an exact match).
	MetricL2 Metric = "l2"
)

// IsValid returns true if the metric is recognised.
func (m Metric) IsValid() bool {
	return m == MetricCosine || m == MetricL2
}

// String returns the string representation.
func (m Metric) String() string {
	return string(m)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model identifier. It is recorded in the
	// index; queries embedded with a different model are rejected.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// LLMSettings holds answer generator configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the generation model identifier.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature controls generation randomness.
	Temperature float64

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// RetrievalSettings holds the chunking and retrieval parameters.
type RetrievalSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of source characters consecutive chunks
	// of one document share.
	ChunkOverlap int

	// TopK is the number of chunks retrieved per query.
	TopK int

	// HistoryWindow is the number of past exchanges kept as generation
	// context.
	HistoryWindow int

	// ContextBudget bounds the assembled context size in characters.
	// Lowest-ranked chunks are dropped first when it is exceeded.
	ContextBudget int

	// Metric is the index similarity metric.
	Metric Metric
}

// Validate checks the parameter relationships that make retrieval
// ill-defined when violated. Violations are configuration errors, fatal at
// construction.
func (s RetrievalSettings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrConfig, s.ChunkSize)
	}
	if s.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative, got %d", ErrConfig, s.ChunkOverlap)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			ErrConfig, s.ChunkOverlap, s.ChunkSize)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrConfig, s.TopK)
	}
	if s.ContextBudget <= 0 {
		return fmt.Errorf("%w: context_budget must be positive, got %d", ErrConfig, s.ContextBudget)
	}
	if !s.Metric.IsValid() {
		return fmt.Errorf("%w: unknown metric %q", ErrConfig, s.Metric)
	}
	return nil
}

// DefaultRetrievalSettings returns the retrieval defaults.
func DefaultRetrievalSettings() RetrievalSettings {
	return RetrievalSettings{
		ChunkSize:     500,
		ChunkOverlap:  50,
		TopK:          3,
		HistoryWindow: 5,
		ContextBudget: 6000,
		Metric:        MetricCosine,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
