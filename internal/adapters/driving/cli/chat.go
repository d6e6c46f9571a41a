package cli

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui"
)

var chatDB string

var chatCmd = &cobra.Command{
	Use:   "chat [files...]",
	Short: "Ask questions in a full-screen terminal chat",
	Long: `Load documents like "ask" and open an interactive chat.

Controls:
  Enter      Ask the typed question
  Tab        Show or hide the sources of the last answer
  PgUp/PgDn  Scroll the transcript
  Esc        Quit

When standard input is not a terminal the plain question loop of "ask"
is used instead.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatDB, "db", "", "index database to load or save")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) (err error) {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	e, err := newEngine(r, engineOptions{dbPath: chatDB, answers: true})
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := e.load(ctx, args); err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if !isTerminal(in) {
		r.Log.Section(readyBanner)
		return runLoop(ctx, in, cmd.OutOrStdout(), e.query, loopOptions{}, r.Log)
	}

	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", p)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("chat crashed: %v", p)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Query:  e.query,
		Status: fmt.Sprintf("%d chunks | %s", e.index.Len(), e.cfg.LLM.Model),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
