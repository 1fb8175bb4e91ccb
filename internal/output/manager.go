package output

import (
	"errors"
	"fmt"
	"io"

	"ghsecaudit/internal/report"
)

// Destination is one place a report is written to.
type Destination interface {
	Write(r *report.AuditReport) error
	String() string
}

type writerDestination struct {
	name     string
	w        io.Writer
	renderer Renderer
}

func (d writerDestination) Write(r *report.AuditReport) error { return d.renderer.Render(d.w, r) }
func (d writerDestination) String() string                    { return d.name }

type fileDestination struct {
	path     string
	renderer Renderer
}

func (d fileDestination) Write(r *report.AuditReport) error { return WriteFile(d.path, d.renderer, r) }
func (d fileDestination) String() string                    { return d.path }

// Manager writes one report to every registered destination. A failing
// destination does not stop the others.
type Manager struct {
	destinations []Destination
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(d Destination) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if d == nil {
		return fmt.Errorf("destination must not be nil")
	}
	m.destinations = append(m.destinations, d)
	return nil
}

// AddWriter registers w rendered with renderer. name identifies it in errors.
func (m *Manager) AddWriter(name string, w io.Writer, renderer Renderer) error {
	if w == nil || renderer == nil {
		return fmt.Errorf("writer and renderer must not be nil")
	}
	return m.Add(writerDestination{name: name, w: w, renderer: renderer})
}

// AddFile registers a file written with renderer.
func (m *Manager) AddFile(path string, renderer Renderer) error {
	if path == "" {
		return fmt.Errorf("output path required")
	}
	if renderer == nil {
		return fmt.Errorf("renderer must not be nil")
	}
	return m.Add(fileDestination{path: path, renderer: renderer})
}

func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.destinations)
}

func (m *Manager) Write(r *report.AuditReport) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, d := range m.destinations {
		if err := d.Write(r); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", d, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing report: %w", errors.Join(errs...))
	}
	return nil
}
