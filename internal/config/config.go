// Package config loads the askdocs configuration file. Settings live in
// a TOML file (default ~/.askdocs/config.toml); API keys come from the
// environment so they never end up on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

// Default locations and values.
const (
	DefaultCorpusDir = "./knowledge_base"

	// Environment variables holding provider credentials.
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// Config is the full askdocs configuration.
type Config struct {
	// CorpusDir is the knowledge-base directory to index.
	CorpusDir string `toml:"corpus_dir"`

	// DataDir holds the persisted index. Empty means ~/.askdocs/data.
	DataDir string `toml:"data_dir"`

	Embedding Embedding `toml:"embedding"`
	LLM       LLM       `toml:"llm"`
	Retrieval Retrieval `toml:"retrieval"`
}

// Embedding configures the embedding provider.
type Embedding struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// LLM configures the answer generator.
type LLM struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// Retrieval configures chunking and retrieval.
type Retrieval struct {
	ChunkSize     int    `toml:"chunk_size"`
	ChunkOverlap  int    `toml:"chunk_overlap"`
	TopK          int    `toml:"top_k"`
	HistoryWindow int    `toml:"history_window"`
	ContextBudget int    `toml:"context_budget"`
	Metric        string `toml:"metric"`
}

// Default returns the configuration used when no file exists: a local
// Ollama stack over ./knowledge_base.
func Default() *Config {
	retrieval := domain.DefaultRetrievalSettings()
	return &Config{
		CorpusDir: DefaultCorpusDir,
		Embedding: Embedding{
			Provider: domain.AIProviderOllama.String(),
			Model:    domain.DefaultEmbeddingModels()[domain.AIProviderOllama],
		},
		LLM: LLM{
			Provider:    domain.AIProviderOllama.String(),
			Model:       domain.DefaultLLMModels()[domain.AIProviderOllama],
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		Retrieval: Retrieval{
			ChunkSize:     retrieval.ChunkSize,
			ChunkOverlap:  retrieval.ChunkOverlap,
			TopK:          retrieval.TopK,
			HistoryWindow: retrieval.HistoryWindow,
			ContextBudget: retrieval.ContextBudget,
			Metric:        retrieval.Metric.String(),
		},
	}
}

// DefaultPath returns ~/.askdocs/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdocs", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults. An
// empty path means the default location; a missing file yields the
// defaults. The result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; run on defaults.
	case err != nil:
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks providers, credentials, and retrieval parameters.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return fmt.Errorf("%w: corpus_dir must not be empty", domain.ErrConfig)
	}

	embedProvider := domain.AIProvider(c.Embedding.Provider)
	if !embedProvider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfig, c.Embedding.Provider)
	}
	llmProvider := domain.AIProvider(c.LLM.Provider)
	if !llmProvider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrConfig, c.LLM.Provider)
	}

	if embedProvider.RequiresAPIKey() && apiKeyFor(embedProvider) == "" {
		return fmt.Errorf("%w: embedding provider %s needs %s set",
			domain.ErrConfig, embedProvider, envVarFor(embedProvider))
	}
	if llmProvider.RequiresAPIKey() && apiKeyFor(llmProvider) == "" {
		return fmt.Errorf("%w: llm provider %s needs %s set",
			domain.ErrConfig, llmProvider, envVarFor(llmProvider))
	}

	return c.RetrievalSettings().Validate()
}

// EmbeddingSettings converts to domain settings, filling the model
// default for the provider and resolving the API key from the
// environment.
func (c *Config) EmbeddingSettings() domain.EmbeddingSettings {
	provider := domain.AIProvider(c.Embedding.Provider)
	model := c.Embedding.Model
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	return domain.EmbeddingSettings{
		Provider: provider,
		Model:    model,
		BaseURL:  c.Embedding.BaseURL,
		APIKey:   apiKeyFor(provider),
	}
}

// LLMSettings converts to domain settings.
func (c *Config) LLMSettings() domain.LLMSettings {
	provider := domain.AIProvider(c.LLM.Provider)
	model := c.LLM.Model
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	return domain.LLMSettings{
		Provider:    provider,
		Model:       model,
		BaseURL:     c.LLM.BaseURL,
		APIKey:      apiKeyFor(provider),
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// RetrievalSettings converts to domain settings.
func (c *Config) RetrievalSettings() domain.RetrievalSettings {
	return domain.RetrievalSettings{
		ChunkSize:     c.Retrieval.ChunkSize,
		ChunkOverlap:  c.Retrieval.ChunkOverlap,
		TopK:          c.Retrieval.TopK,
		HistoryWindow: c.Retrieval.HistoryWindow,
		ContextBudget: c.Retrieval.ContextBudget,
		Metric:        domain.Metric(c.Retrieval.Metric),
	}
}

func apiKeyFor(p domain.AIProvider) string {
	return os.Getenv(envVarFor(p))
}

func envVarFor(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI:
		return EnvOpenAIKey
	case domain.AIProviderAnthropic:
		return EnvAnthropicKey
	default:
		return ""
	}
}
