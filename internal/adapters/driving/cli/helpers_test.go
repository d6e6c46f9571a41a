package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/exporter/docx"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/loader"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/storage/sqlite"
	memindex "github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/services"
	"github.com/custodia-labs/ragqa/internal/logger"
	"github.com/custodia-labs/ragqa/internal/normalisers"
)

const stubAnswer = "Paris is the capital of France."

type stubLLM struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (m *stubLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return stubAnswer, nil
}

func (m *stubLLM) ModelName() string            { return "stub-llm" }
func (m *stubLLM) Ping(_ context.Context) error { return nil }
func (m *stubLLM) Close() error                 { return nil }

type stubChecker struct {
	embedErr error
	llmErr   error
}

func (c *stubChecker) ValidateEmbedding(_ context.Context, _ domain.EmbeddingSettings) error {
	return c.embedErr
}

func (c *stubChecker) ValidateLLM(_ context.Context, _ domain.LLMSettings) error {
	return c.llmErr
}

// testEnv is a runtime backed by local adapters and a temporary directory.
type testEnv struct {
	dir     string
	dbPath  string
	logs    *bytes.Buffer
	llm     *stubLLM
	checker *stubChecker
	rt      *Runtime
}

// setupTestRuntime installs a runtime that needs no network and restores
// the previous one, and every flag, on cleanup.
func setupTestRuntime(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logs := new(bytes.Buffer)
	log := logger.New(logs, false)

	settings := services.NewSettingsService(memory.NewConfigStore(map[string]any{
		services.KeyEmbedProvider: string(domain.AIProviderLocal),
		services.KeyLLMProvider:   string(domain.AIProviderOllama),
	}))
	settings.SetEnvLookup(func(string) string { return "" })

	env := &testEnv{
		dir:     dir,
		dbPath:  filepath.Join(dir, "index.db"),
		logs:    logs,
		llm:     &stubLLM{},
		checker: &stubChecker{},
	}
	env.rt = &Runtime{
		Log:           log,
		Settings:      settings,
		Loader:        loader.NewFileLoader(normalisers.DefaultRegistry(), log),
		Exporter:      docx.New(),
		Checker:       env.checker,
		DefaultDBPath: env.dbPath,
		NewEmbedder: func(domain.PipelineConfig) (driven.EmbeddingService, error) {
			return local.NewEmbeddingService(64), nil
		},
		NewLLM: func(domain.PipelineConfig) (driven.LanguageModel, error) {
			return env.llm, nil
		},
		NewIndex: func(domain.PipelineConfig) driven.VectorIndex {
			return memindex.New()
		},
		OpenStore: func(path string) (driven.IndexStore, error) {
			return sqlite.NewStore(path)
		},
	}

	previous := rt
	SetRuntime(env.rt)
	t.Cleanup(func() {
		SetRuntime(previous)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// resetFlags returns every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeFile creates name under the environment directory.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

const franceText = `France is a country in Western Europe. Its capital is Paris, which is
known for the Eiffel Tower and the Louvre museum.`

const coffeeText = `Coffee is brewed from roasted beans. Espresso is made by forcing hot
water through finely ground coffee.`
