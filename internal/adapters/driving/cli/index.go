package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexDB string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the persisted index",
	Long:  `Build and inspect the SQLite index database used by ask, search and mcp serve.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Chunk, embed and save documents",
	Long: `Chunk and embed the given documents and save the chunks, vectors and
a manifest to the index database. A previous index in the same database
is replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexBuild,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the saved index manifest",
	Args:  cobra.NoArgs,
	RunE:  runIndexInfo,
}

func init() {
	indexCmd.PersistentFlags().StringVar(&indexDB, "db", "", "index database (default store.path or ~/.ragqa/index.db)")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexInfoCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	e, err := newEngine(r, engineOptions{dbPath: indexDB, requireDB: true})
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	if err := e.load(cmd.Context(), args); err != nil {
		return err
	}
	cmd.Printf("Indexed %d chunks from %d files into %s\n", e.index.Len(), len(args), e.cfg.Store.Path)
	return nil
}

func runIndexInfo(cmd *cobra.Command, _ []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(r)
	if err != nil {
		return err
	}
	path := indexDB
	if path == "" {
		path = cfg.Store.Path
	}
	if path == "" {
		path = r.DefaultDBPath
	}

	store, err := r.OpenStore(path)
	if err != nil {
		return fmt.Errorf("open index database: %w", err)
	}
	defer store.Close() //nolint:errcheck

	manifest, _, err := store.LoadIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	cmd.Printf("Database:        %s\n", path)
	cmd.Printf("Embedding model: %s\n", manifest.EmbeddingModel)
	cmd.Printf("Dimensions:      %d\n", manifest.Dimensions)
	cmd.Printf("Chunks:          %d\n", manifest.Chunks)
	cmd.Printf("Chunk size:      %d (overlap %d)\n", manifest.ChunkSize, manifest.ChunkOverlap)
	cmd.Printf("Built:           %s\n", manifest.BuiltAt.Local().Format(time.RFC1123))
	return nil
}
