package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"ghsecaudit/internal/report"
)

// JSONRenderer writes the report snapshot as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, r *report.AuditReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// YAMLRenderer writes the report snapshot as YAML.
type YAMLRenderer struct{}

func (YAMLRenderer) Render(w io.Writer, r *report.AuditReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return err
	}
	return encoder.Close()
}

// StructuredRenderer returns the renderer for a structured file format.
func StructuredRenderer(format string) (Renderer, error) {
	switch format {
	case "json":
		return JSONRenderer{}, nil
	case "yaml", "yml":
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
