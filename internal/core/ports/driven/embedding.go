package driven

import "context"

// EmbeddingService maps text to a fixed-dimension vector. Embeddings are
// deterministic for a given model identifier.
//
// This is separate from VectorIndex: EmbeddingService generates vectors,
// VectorIndex stores and searches them. Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. More efficient
	// than calling Embed in a loop for providers with a batch API.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	// It is determined by the model and must match the index.
	Dimensions() int

	// ModelName returns the embedding model identifier. An index built
	// with one model rejects queries embedded with another.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
