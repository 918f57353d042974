package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/toonc/internal/roundtrip"
)

const (
	// uriScheme is the custom URI scheme for toonc resources.
	uriScheme = "toonc://"

	// historyLimit caps the records returned by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent compile records, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "patterns",
		Name:        "patterns",
		Description: "Structural transformations the roundtrip validator recognises",
		MIMEType:    "application/json",
	}, s.handlePatternsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "edge-cases",
		Name:        "edge-cases",
		Description: "Source constructs that need special handling",
		MIMEType:    "application/json",
	}, s.handleEdgeCasesResource)
}

// handleHistoryResource returns recent compile records.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, []any{})
	}

	records, err := s.ports.History.Recent(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if records == nil {
		return jsonResult(req.Params.URI, []any{})
	}
	return jsonResult(req.Params.URI, records)
}

// handlePatternsResource returns the pattern catalog.
func (s *Server) handlePatternsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, roundtrip.Patterns())
}

// handleEdgeCasesResource returns the edge case catalog.
func (s *Server) handleEdgeCasesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, roundtrip.EdgeCases())
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
