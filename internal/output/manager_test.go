package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ghsecaudit/internal/report"
)

func TestManager_WritesEveryDestination(t *testing.T) {
	m := NewManager()
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "report.md")

	if err := m.AddWriter("console", &console, NewConsoleRenderer("text", false)); err != nil {
		t.Fatalf("AddWriter: %v", err)
	}
	if err := m.AddFile(path, MarkdownRenderer{}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}

	if err := m.Write(fixtureReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(console.String(), "acme GitHub Audit Report") {
		t.Fatalf("console destination not written")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(b), "# acme GitHub Audit Report") {
		t.Fatalf("unexpected markdown file:\n%s", b)
	}
}

func TestManager_FailureDoesNotStopOthers(t *testing.T) {
	m := NewManager()
	failing := RendererFunc(func(io.Writer, *report.AuditReport) error { return errors.New("disk full") })
	var buf bytes.Buffer

	_ = m.AddWriter("broken", io.Discard, failing)
	_ = m.AddWriter("ok", &buf, JSONRenderer{})

	err := m.Write(fixtureReport())
	if err == nil || !strings.Contains(err.Error(), "write broken: disk full") {
		t.Fatalf("expected joined error naming the destination, got %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected the healthy destination to be written")
	}
}

func TestManager_NilGuards(t *testing.T) {
	var nilManager *Manager
	if err := nilManager.Write(fixtureReport()); err == nil {
		t.Fatalf("expected error for nil manager")
	}
	if nilManager.Len() != 0 {
		t.Fatalf("nil manager must report no destinations")
	}

	m := NewManager()
	if err := m.Add(nil); err == nil {
		t.Fatalf("expected error for nil destination")
	}
	if err := m.AddFile("", JSONRenderer{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := m.AddWriter("x", nil, JSONRenderer{}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}
