package driven

import (
	"context"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

// CorpusLoader reads the full document corpus. The corpus is fixed and
// local; a change to it requires a full index rebuild.
type CorpusLoader interface {
	// Load reads every document in the corpus. It returns
	// domain.ErrCorpus when the corpus is unreadable or empty.
	Load(ctx context.Context) ([]domain.Document, error)
}
