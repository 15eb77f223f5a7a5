package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for askdocs resources.
const uriScheme = "askdocs://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing the indexed documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of documents in the published index",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Static resource describing the index itself.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "State and statistics of the vector index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleDocumentsResource returns the indexed documents with chunk counts.
func (s *Server) handleDocumentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexer == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	type docInfo struct {
		ID     string `json:"id"`
		Chunks int    `json:"chunks"`
	}

	docs := s.ports.Indexer.Documents()
	infos := make([]docInfo, len(docs))
	for i, d := range docs {
		infos[i] = docInfo{ID: d.ID, Chunks: d.Chunks}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleIndexResource returns the pipeline state and index statistics.
func (s *Server) handleIndexResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexer == nil {
		return jsonResource(req.Params.URI, "{}"), nil
	}

	stats := s.ports.Indexer.Stats()
	info := struct {
		State      string `json:"state"`
		Documents  int    `json:"documents"`
		Chunks     int    `json:"chunks"`
		Model      string `json:"model,omitempty"`
		Dimensions int    `json:"dimensions,omitempty"`
	}{
		State:      s.ports.Indexer.State().String(),
		Documents:  stats.Documents,
		Chunks:     stats.Chunks,
		Model:      stats.Model,
		Dimensions: stats.Dimensions,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index info: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
