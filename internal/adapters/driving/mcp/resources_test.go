package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/roundtrip"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func newHistoryServer(t *testing.T, history *mockHistoryService) *Server {
	t.Helper()
	ports := &Ports{
		Compile:   &mockCompileService{},
		Validator: &mockValidateService{},
	}
	if history != nil {
		ports.History = history
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns records", func(t *testing.T) {
		history := &mockHistoryService{records: []domain.BuildRecord{{
			ID:         "b-1",
			SourcePath: "agents/a.toon",
			OutputPath: "out/a.md",
			DocumentID: "a",
			CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}}}
		server := newHistoryServer(t, history)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("toonc://history"))

		require.NoError(t, err)
		assert.Equal(t, historyLimit, history.lastLimit)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "toonc://history", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var records []domain.BuildRecord
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "b-1", records[0].ID)
	})

	t.Run("no records yields empty array", func(t *testing.T) {
		server := newHistoryServer(t, &mockHistoryService{})

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("toonc://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("nil history service yields empty array", func(t *testing.T) {
		server := newHistoryServer(t, nil)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("toonc://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newHistoryServer(t, &mockHistoryService{err: errors.New("db locked")})

		_, err := server.handleHistoryResource(ctx, makeReadResourceRequest("toonc://history"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing history")
	})
}

func TestServer_handleCatalogResources(t *testing.T) {
	ctx := context.Background()
	server := newHistoryServer(t, nil)

	result, err := server.handlePatternsResource(ctx, makeReadResourceRequest("toonc://patterns"))
	require.NoError(t, err)
	var patterns []domain.Pattern
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &patterns))
	assert.Equal(t, roundtrip.Patterns(), patterns)

	result, err = server.handleEdgeCasesResource(ctx, makeReadResourceRequest("toonc://edge-cases"))
	require.NoError(t, err)
	var edgeCases []domain.EdgeCase
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &edgeCases))
	assert.Equal(t, roundtrip.EdgeCases(), edgeCases)
}
