package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	l := New(&bytes.Buffer{}, false)
	if l.IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	l.SetVerbose(true)
	if !l.IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	l.SetVerbose(false)
	if l.IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)

	l.Debug("test message %s", "arg")

	if buf.String() != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Debug("test message")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Section("Retrieval")

	if buf.String() != "\n=== Retrieval ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestInfoAndWarn_AlwaysWritten(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Info("loaded %d chunks", 4)
	l.Warn("unsupported file type: %s", "a.xls")

	want := "[INFO] loaded 4 chunks\n[WARN] unsupported file type: a.xls\n"
	if buf.String() != want {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New(&first, false)

	l.Info("one")
	l.SetOutput(&second)
	l.Info("two")

	if !strings.Contains(first.String(), "one") || strings.Contains(first.String(), "two") {
		t.Errorf("unexpected first output: %q", first.String())
	}
	if !strings.Contains(second.String(), "two") {
		t.Errorf("unexpected second output: %q", second.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Section("x")
	l.SetVerbose(true)
	if l.IsVerbose() {
		t.Error("nil logger should never be verbose")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded")
	if l.IsVerbose() {
		t.Error("nop logger should not be verbose")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestConcurrentWrites(t *testing.T) {
	out := &syncBuffer{}
	l := New(out, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("line %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Count(out.buf.String(), "\n")
	if lines != 20 {
		t.Errorf("expected 20 lines, got %d", lines)
	}
}
