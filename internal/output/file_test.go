package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"ghsecaudit/internal/report"
)

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "out.json", want: "json"},
		{path: "OUT.YAML", want: "yaml"},
		{path: "dir/out.yml", want: "yaml"},
		{path: "report.md", want: "markdown"},
		{path: "acme_audit_report.html", want: "html"},
		{path: "out.txt", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		got, err := InferFormat(tt.path)
		if tt.wantErr {
			if err == nil || !strings.Contains(err.Error(), "cannot infer output format") {
				t.Fatalf("InferFormat(%q) expected inference error, got %v", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("InferFormat(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestWriteFile_CreatesDirectoriesAndWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "report.yaml")

	if err := WriteFile(path, YAMLRenderer{}, fixtureReport()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v\nbody=%s", err, b)
	}
	if got["organization"] != "acme" {
		t.Fatalf("organization = %v", got["organization"])
	}
	if !strings.Contains(string(b), "rule: MinApprovals") {
		t.Fatalf("expected rule kinds by name, got\n%s", b)
	}
}

func TestWriteFile_Errors(t *testing.T) {
	if err := WriteFile("", JSONRenderer{}, fixtureReport()); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "x.json"), nil, fixtureReport()); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	boom := RendererFunc(func(io.Writer, *report.AuditReport) error { return errors.New("boom") })
	if err := WriteFile(filepath.Join(t.TempDir(), "x.json"), boom, fixtureReport()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestStructuredRenderer(t *testing.T) {
	for _, format := range []string{"json", "yaml", "yml"} {
		r, err := StructuredRenderer(format)
		if err != nil {
			t.Fatalf("StructuredRenderer(%q): %v", format, err)
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, fixtureReport()); err != nil {
			t.Fatalf("Render %s: %v", format, err)
		}
		if !strings.Contains(buf.String(), "acme/api") {
			t.Fatalf("%s output missing repository:\n%s", format, buf.String())
		}
	}
	if _, err := StructuredRenderer("csv"); err == nil {
		t.Fatalf("expected error for csv")
	}
}
