// Package output renders an AuditReport for people and machines.
package output

import (
	"io"

	"ghsecaudit/internal/report"
	"ghsecaudit/internal/rules"
)

// Renderer writes one representation of a report.
type Renderer interface {
	Render(w io.Writer, r *report.AuditReport) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, r *report.AuditReport) error

func (f RendererFunc) Render(w io.Writer, r *report.AuditReport) error {
	return f(w, r)
}

// flushRendered flushes buffered destinations (bufio.Writer, color writers)
// once a report has been fully written.
func flushRendered(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

const (
	// CodeownersConfiguration labels the per-repository reviewer file row.
	CodeownersConfiguration = "CODEOWNERS Status"
	// CodeownersExpected is the reviewer file status a compliant repository has.
	CodeownersExpected = "Set and Valid"

	statusAccessError = "Access Error"
)

// detailRow is one line of the detailed report table.
type detailRow struct {
	Repository    string
	Configuration string
	Status        string
	Current       string
	Expected      string
}

func (d detailRow) compliant() bool {
	return d.Status == string(rules.StatusCorrect)
}

// detailRows flattens the report into table rows: each repository's findings
// in rule order, then its CODEOWNERS status. A repository that could not be
// audited gets a single access error row.
func detailRows(r *report.AuditReport) []detailRow {
	var rows []detailRow
	for _, e := range r.Repositories() {
		slug := e.Repository.Slug()
		if !e.Accessible() {
			rows = append(rows, detailRow{
				Repository:    slug,
				Configuration: e.AccessError.Operation,
				Status:        statusAccessError,
				Current:       e.AccessError.Message,
				Expected:      "-",
			})
			continue
		}
		for _, f := range e.Findings {
			rows = append(rows, detailRow{
				Repository:    slug,
				Configuration: f.Title,
				Status:        string(f.Status),
				Current:       f.CurrentValue,
				Expected:      f.ExpectedValue,
			})
		}
		status := string(rules.StatusIncorrect)
		if e.Reviewers.Found && e.Reviewers.Valid {
			status = string(rules.StatusCorrect)
		}
		rows = append(rows, detailRow{
			Repository:    slug,
			Configuration: CodeownersConfiguration,
			Status:        status,
			Current:       e.Reviewers.Describe(),
			Expected:      CodeownersExpected,
		})
	}
	return rows
}
