package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("reports index size and model", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Retrieval:      &mockRetrievalService{},
			Index:          fixedIndex{n: 12, dims: 768},
			EmbeddingModel: "text-embedding-004",
		})
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var info IndexInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, IndexInfo{Chunks: 12, Dimensions: 768, EmbeddingModel: "text-embedding-004"}, info)
	})

	t.Run("nil index reports zeros", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))
		require.NoError(t, err)
		assert.JSONEq(t, `{"chunks":0,"dimensions":0}`, result.Contents[0].Text)
	})
}
