package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

const defaultExportTitle = "Extracted Text from PDF"

var (
	exportOut   string
	exportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a document's chunks to a Word file",
	Long: `Chunk a document with the configured chunker and write the chunks to a
.docx file: a title heading followed by a "Chunk N" heading and paragraph
for each chunk. No embedding or language model is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "extracted_text.docx", "output file")
	exportCmd.Flags().StringVar(&exportTitle, "title", defaultExportTitle, "document heading")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	if r.Exporter == nil {
		return fmt.Errorf("%w: no exporter configured", domain.ErrConfiguration)
	}
	cfg, err := loadConfig(r)
	if err != nil {
		return err
	}
	ingestor, err := newIngestor(r, cfg)
	if err != nil {
		return err
	}

	report, err := ingestor.Ingest(cmd.Context(), args)
	if err != nil {
		return err
	}
	if len(report.Chunks) == 0 {
		return fmt.Errorf("export %s: %w", args[0], domain.ErrEmptyInput)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := r.Exporter.Export(cmd.Context(), f, exportTitle, report.Chunks); err != nil {
		f.Close() //nolint:errcheck
		os.Remove(exportOut) //nolint:errcheck
		return fmt.Errorf("export %s: %w", args[0], err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOut, err)
	}

	cmd.Printf("Exported %d chunks to %s\n", len(report.Chunks), exportOut)
	return nil
}
