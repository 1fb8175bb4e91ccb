package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"ghsecaudit/internal/report"
)

// ConsoleRenderer prints a report to a terminal. Format is "text" or "json".
type ConsoleRenderer struct {
	Format string
	// Color forces ANSI colors on or off in text mode.
	Color bool
}

func NewConsoleRenderer(format string, useColor bool) *ConsoleRenderer {
	if format == "" {
		format = "text"
	}
	return &ConsoleRenderer{Format: format, Color: useColor}
}

func (c *ConsoleRenderer) Render(w io.Writer, r *report.AuditReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	switch c.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return flushRendered(w)
	case "text":
		return c.renderText(w, r)
	default:
		return fmt.Errorf("unsupported console format: %s", c.Format)
	}
}

func (c *ConsoleRenderer) palette(attrs ...color.Attribute) *color.Color {
	p := color.New(attrs...)
	if c.Color {
		p.EnableColor()
	} else {
		p.DisableColor()
	}
	return p
}

func (c *ConsoleRenderer) renderText(w io.Writer, r *report.AuditReport) error {
	bold := c.palette(color.Bold)
	green := c.palette(color.FgGreen)
	red := c.palette(color.FgRed)
	yellow := c.palette(color.FgYellow)

	s := r.Summary()
	if _, err := bold.Fprintf(w, "%s GitHub Audit Report (%s)\n", r.Organization(), r.AccountType()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Repositories: %d  Members: %d  Code owners: %d  Access errors: %d\n",
		s.TotalRepositories, s.TotalMembers, s.TotalCodeOwners, s.AccessErrors)
	fmt.Fprintf(w, "Findings: %s correct, %s incorrect, %s missing\n\n",
		green.Sprint(s.Correct), red.Sprint(s.Incorrect), yellow.Sprint(s.Missing))

	for _, row := range detailRows(r) {
		if row.Status == statusAccessError {
			if _, err := fmt.Fprintf(w, "%s %s: %s - %s\n",
				yellow.Sprintf("[%s]", row.Status), row.Repository, row.Configuration, row.Current); err != nil {
				return err
			}
			continue
		}
		var tag string
		switch {
		case row.compliant():
			tag = green.Sprintf("[%s]", row.Status)
		default:
			tag = red.Sprintf("[%s]", row.Status)
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s - current %s, expected %s\n",
			tag, row.Repository, row.Configuration, row.Current, row.Expected); err != nil {
			return err
		}
	}
	return flushRendered(w)
}
