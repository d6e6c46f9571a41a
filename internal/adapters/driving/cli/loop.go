package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
	"github.com/custodia-labs/ragqa/internal/logger"
)

const maxQuestionBytes = 1 << 20

// isTerminal reports whether r is an interactive terminal.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type loopOptions struct {
	// prompt prints "Question: " before each read.
	prompt bool

	// showSources lists every retrieved chunk after each answer.
	showSources bool
}

// runLoop reads questions line by line until quit, EOF or cancellation.
// A failed question is reported and the loop continues, except for
// credential and configuration failures which end it.
func runLoop(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	query driving.QueryService,
	opts loopOptions,
	log *logger.Logger,
) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxQuestionBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if opts.prompt {
			fmt.Fprint(out, "\nQuestion: ")
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			log.Info("Exiting...")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			if opts.prompt {
				fmt.Fprintln(out)
			}
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("read question: %w", err)
				}
			default:
			}
			return nil
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if isQuit(question) {
			return nil
		}

		answer, results, err := query.AnswerWithResults(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Exiting...")
				return nil
			}
			if errors.Is(err, domain.ErrAuthentication) || errors.Is(err, domain.ErrConfiguration) {
				return err
			}
			log.Warn("Could not answer: %v", err)
			continue
		}

		fmt.Fprintf(out, "\nAnswer: %s\n", answer.Text)
		fmt.Fprintf(out, "Sources: %d documents used\n", len(answer.Sources))
		if opts.showSources {
			printSources(out, answer, results)
		}
	}
}

func isQuit(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// printSources lists retrieved chunks; those placed in the context are
// marked with an asterisk.
func printSources(out io.Writer, answer *domain.Answer, results []domain.ScoredChunk) {
	used := make(map[string]bool, len(answer.Sources))
	for _, c := range answer.Sources {
		used[c.ID] = true
	}
	for i, r := range results {
		marker := " "
		if used[r.Chunk.ID] {
			marker = "*"
		}
		fmt.Fprintf(out, " %s[%d] %s (%.2f)\n", marker, i+1, chunkLabel(r.Chunk), r.Score)
	}
}

func chunkLabel(c domain.Chunk) string {
	if c.Section != "" {
		return fmt.Sprintf("%s, %s", c.Title(), c.Section)
	}
	return c.Title()
}
