package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/components/sources"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/tui/styles"
)

// chrome is the number of rows used by the title, input and status bar.
const chrome = 6

// exchange is one question and its outcome in the transcript.
type exchange struct {
	question string
	answer   string
	sources  int
	err      error
	pending  bool
}

// App is the chat TUI following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.QuestionInput
	statusbar  *status.Bar
	sourceList *sources.Panel
	transcript viewport.Model

	history     []exchange
	showSources bool
	busy        bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		statusbar:  status.NewBar(s, km, ports.Status),
		sourceList: sources.NewPanel(s),
		transcript: viewport.New(80, 24-chrome),
	}, nil
}

// WithContext sets the context passed to the query service.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("ragqa"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.receive(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.statusbar.SetError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.statusbar, cmd = a.statusbar.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Sources):
		a.showSources = !a.showSources
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd

	case keymap.Matches(key, a.keymap.Submit):
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	question := strings.TrimSpace(a.input.Value())
	if question == "" || a.busy {
		return nil
	}
	if isQuit(question) {
		return tea.Quit
	}

	a.input.Reset()
	a.busy = true
	a.history = append(a.history, exchange{question: question, pending: true})
	a.refresh()
	return tea.Batch(a.statusbar.Think(), a.ask(question))
}

// ask runs the query off the update loop.
func (a *App) ask(question string) tea.Cmd {
	ctx := a.ctx
	query := a.ports.Query
	return func() tea.Msg {
		answer, results, err := query.AnswerWithResults(ctx, question)
		return messages.AnswerReceived{
			Question: question,
			Answer:   answer,
			Results:  results,
			Err:      err,
		}
	}
}

func (a *App) receive(msg messages.AnswerReceived) {
	a.busy = false
	if n := len(a.history); n > 0 && a.history[n-1].pending {
		ex := &a.history[n-1]
		ex.pending = false
		ex.err = msg.Err
		if msg.Answer != nil {
			ex.answer = msg.Answer.Text
			ex.sources = len(msg.Answer.Sources)
		}
	}

	switch {
	case msg.Err != nil:
		a.statusbar.SetError(msg.Err)
	case msg.Answer != nil:
		a.statusbar.SetReady()
		a.sourceList.Set(msg.Results, msg.Answer.Sources)
	default:
		a.statusbar.SetReady()
	}
	a.refresh()
}

func (a *App) refresh() {
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.history) == 0 {
		return a.styles.Muted.Render("Ask a question about the loaded documents. Type 'quit' to exit.")
	}

	wrap := lipgloss.NewStyle().Width(max(a.width-2, 20))
	blocks := make([]string, 0, len(a.history))
	for _, ex := range a.history {
		var b strings.Builder
		b.WriteString(a.styles.Question.Render("Question: " + ex.question))
		b.WriteString("\n")
		switch {
		case ex.pending:
			b.WriteString(a.styles.Muted.Render("..."))
		case ex.err != nil:
			b.WriteString(a.styles.Error.Render(wrap.Render("Error: " + ex.err.Error())))
		default:
			b.WriteString(a.styles.Answer.Render(wrap.Render("Answer: " + ex.answer)))
			b.WriteString("\n")
			b.WriteString(a.styles.Source.Render(fmt.Sprintf("Sources: %d documents used", ex.sources)))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	body := a.transcript.View()
	if a.showSources {
		body = a.sourceList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("ragqa"),
		body,
		a.input.View(),
		a.statusbar.View(),
	)
}

// Run starts the program and blocks until the user quits or ctx is done.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// SetDimensions sizes every component to the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)
	a.sourceList.SetWidth(width)
	a.transcript.Width = width
	a.transcript.Height = max(height-chrome, 1)
	a.refresh()
}

// Busy reports whether a question is being answered.
func (a *App) Busy() bool {
	return a.busy
}

// ShowingSources reports whether the sources panel is visible.
func (a *App) ShowingSources() bool {
	return a.showSources
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

func isQuit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}
