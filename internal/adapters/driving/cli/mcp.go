package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/adapters/driving/mcp"
)

var (
	mcpDB           string
	mcpPort         int
	mcpRetrieveOnly bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [files...]",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the loaded documents.

Tools:
  retrieve  ranked passages for a question
  ask       an answer generated from retrieved passages

The index is built from the given files, or loaded from --db when no
files are given. By default the server speaks JSON-RPC over stdio; use
--port to serve streamable HTTP instead.

Examples:
  ragqa mcp serve --db ~/.ragqa/index.db
  ragqa mcp serve --port 8080 handbook.pdf

Client configuration:
  {
    "mcpServers": {
      "ragqa": {
        "command": "/path/to/ragqa",
        "args": ["mcp", "serve", "--db", "/path/to/index.db"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpDB, "db", "", "index database (default store.path or ~/.ragqa/index.db)")
	mcpServeCmd.Flags().BoolVar(&mcpRetrieveOnly, "retrieve-only", false, "expose only the retrieve tool; no language model is needed")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	e, err := newEngine(r, engineOptions{
		dbPath:    mcpDB,
		requireDB: len(args) == 0,
		answers:   !mcpRetrieveOnly,
	})
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := e.load(ctx, args); err != nil {
		return err
	}

	server, err := mcp.NewServer(mcpPorts(e))
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", mcpPort)
		cmd.Printf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	// stdout carries the protocol; status goes to the log on stderr.
	r.Log.Info("MCP server ready on stdio (%d chunks)", e.index.Len())
	return server.Run(ctx)
}

func mcpPorts(e *engine) *mcp.Ports {
	ports := &mcp.Ports{
		Retrieval:      e.retriever,
		Index:          e.index,
		EmbeddingModel: e.embedder.ModelName(),
	}
	if e.query != nil {
		ports.Query = e.query
	}
	return ports
}
