package mcp

import (
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query serves search and answer requests.
	Query driving.QueryService

	// Indexer reports index state and contents.
	Indexer driving.IndexerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Indexer is optional; without it the resources are empty.
	return nil
}
