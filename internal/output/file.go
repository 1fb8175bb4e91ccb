package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ghsecaudit/internal/report"
)

// InferFormat maps an output path extension to a structured format.
func InferFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".md", ".markdown":
		return "markdown", nil
	case ".html", ".htm":
		return "html", nil
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q", ext)
	}
}

// WriteFile renders r into path, creating parent directories as needed.
func WriteFile(path string, renderer Renderer, r *report.AuditReport) (err error) {
	if path == "" {
		return fmt.Errorf("output path required")
	}
	if renderer == nil {
		return fmt.Errorf("renderer must not be nil")
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if err := renderer.Render(w, r); err != nil {
		return err
	}
	return w.Flush()
}
