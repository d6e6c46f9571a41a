package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchDB    string
)

var searchCmd = &cobra.Command{
	Use:   "search [question] [files...]",
	Short: "Show the chunks most similar to a question",
	Long: `Rank indexed chunks by cosine similarity to the question without
calling a language model.

With files, they are loaded and indexed in memory first. Without files
the saved index is used (see --db).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// searchResult is the JSON shape of one ranked chunk.
type searchResult struct {
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
	ChunkID  string  `json:"chunk_id"`
	SourceID string  `json:"source_id"`
	Title    string  `json:"title"`
	Section  string  `json:"section,omitempty"`
	Text     string  `json:"text"`
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default retrieval.top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchDB, "db", "", "index database (default store.path or ~/.ragqa/index.db)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	question, files := args[0], args[1:]

	r, err := currentRuntime()
	if err != nil {
		return err
	}
	e, err := newEngine(r, engineOptions{dbPath: searchDB, requireDB: len(files) == 0})
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	if err := e.load(cmd.Context(), files); err != nil {
		return err
	}

	results, err := e.retriever.Retrieve(cmd.Context(), question, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	out := make([]searchResult, len(results))
	for i, r := range results {
		out[i] = searchResult{
			Rank:     i + 1,
			Score:    r.Score,
			ChunkID:  r.Chunk.ID,
			SourceID: r.Chunk.SourceID,
			Title:    r.Chunk.Title(),
			Section:  r.Chunk.Section,
			Text:     r.Chunk.Text,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, chunkLabel(r.Chunk), r.Score)
		cmd.Printf("      %s\n", snippet(r.Chunk.Text, 160))
		cmd.Println()
	}
	return nil
}

func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
