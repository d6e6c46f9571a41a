package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/adapters/driving/watch"
	"github.com/custodia-labs/ragqa/internal/core/domain"
)

const readyBanner = "RAG System Ready! Ask questions (type 'quit' to exit)"

var (
	askDB          string
	askWatch       bool
	askShowSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [files...]",
	Short: "Load documents and answer questions interactively",
	Long: `Load the given documents, build the index, and answer questions read
from standard input, one per line.

Supported formats: .pdf, .docx, .txt and .md. Files with other extensions
are skipped with a warning; a missing file is an error.

With --db and no files, the index saved by "ragqa index build" is loaded
without re-embedding. With --db and files, the new index is also saved.

Type quit, exit or q (or press Ctrl-D) to stop.

Examples:
  ragqa ask report.pdf notes.docx
  ragqa ask --db ~/.ragqa/index.db
  ragqa ask --watch notes.md`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDB, "db", "", "index database to load or save")
	askCmd.Flags().BoolVarP(&askWatch, "watch", "w", false, "rebuild the index when a file changes")
	askCmd.Flags().BoolVarP(&askShowSources, "show-sources", "s", false, "list retrieved chunks after each answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	if askWatch && len(args) == 0 {
		return fmt.Errorf("%w: --watch needs files to watch", domain.ErrInvalidInput)
	}

	e, err := newEngine(r, engineOptions{dbPath: askDB, answers: true})
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := e.load(ctx, args); err != nil {
		return err
	}

	if askWatch {
		w := watch.New(args, e, r.Log)
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck
	}

	in := cmd.InOrStdin()
	r.Log.Section(readyBanner)
	return runLoop(ctx, in, cmd.OutOrStdout(), e.query, loopOptions{
		prompt:      isTerminal(in),
		showSources: askShowSources,
	}, r.Log)
}
