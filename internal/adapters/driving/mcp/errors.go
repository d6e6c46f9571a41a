// Package mcp provides an MCP (Model Context Protocol) server adapter for ragqa.
// It lets MCP clients retrieve passages from the loaded index and ask
// questions answered with retrieved context.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
