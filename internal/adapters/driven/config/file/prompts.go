package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts seeds the prompt directory and backs any prompt whose
// file is missing or unreadable.
var builtinPrompts = map[string]string{
	driven.PromptAnswer: driven.DefaultAnswerPrompt,
}

// PromptStore serves prompt templates from <dir>/<name>.txt.
//
// The directory is seeded lazily on the first Load. A cached prompt is
// reused while its file's size and modification time are unchanged, so
// edits are picked up by a long-running session without a restart.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu      sync.Mutex
	entries map[string]promptEntry
}

type promptEntry struct {
	text    string
	size    int64
	modTime time.Time
}

// NewPromptStore creates a store over dir. An empty dir means
// ~/.ragqa/prompts. No files are touched until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, entries: make(map[string]promptEntry)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named template with surrounding whitespace trimmed.
// Unknown names without a file are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	builtin, hasBuiltin := builtinPrompts[name]
	if s.seedErr != nil {
		if hasBuiltin {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt directory unavailable: %w", s.seedErr)
	}

	text, err := s.read(name)
	if err != nil {
		if hasBuiltin {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return text, nil
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.entries = make(map[string]promptEntry)
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	info, err := os.Stat(s.path(name))
	if err != nil {
		s.forget(name)
		return "", err
	}

	s.mu.Lock()
	cached, ok := s.entries[name]
	s.mu.Unlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.text, nil
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		s.forget(name)
		return "", err
	}
	entry := promptEntry{
		text:    strings.TrimSpace(string(data)),
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	s.mu.Lock()
	s.entries[name] = entry
	s.mu.Unlock()
	return entry.text, nil
}

func (s *PromptStore) forget(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.mu.Unlock()
}

// seed creates the directory, any missing built-in prompt files and a README.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	files := map[string]string{"README.md": promptReadme}
	for name, text := range builtinPrompts {
		files[name+".txt"] = text
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.seedErr = err
			return
		}
	}
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

const promptReadme = `# ragqa prompts

Each .txt file here is a Go text/template used to ask the language model.

- answer.txt: the question answering prompt

Fields:

- {{.Context}}: the retrieved chunk texts, separated by blank lines
- {{.Question}}: the question

Edits take effect on the next question. Delete a file to restore the
built-in default.
`
