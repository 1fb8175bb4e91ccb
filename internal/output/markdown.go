package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ghsecaudit/internal/report"
)

// MarkdownRenderer writes the report as GitHub-flavored Markdown.
type MarkdownRenderer struct {
	// GeneratedAt is printed under the title when set.
	GeneratedAt time.Time
}

func (m MarkdownRenderer) Render(w io.Writer, r *report.AuditReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	_, err := io.WriteString(w, m.build(r))
	return err
}

func (m MarkdownRenderer) build(r *report.AuditReport) string {
	s := r.Summary()
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s GitHub Audit Report\n\n", r.Organization()))
	if !m.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Generated on %s\n\n", m.GeneratedAt.Format("2006-01-02 15:04:05")))
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | ---: |\n")
	b.WriteString(fmt.Sprintf("| Account Type | %s |\n", r.AccountType()))
	b.WriteString(fmt.Sprintf("| Total Repositories | %d |\n", s.TotalRepositories))
	b.WriteString(fmt.Sprintf("| Total Members | %d |\n", s.TotalMembers))
	b.WriteString(fmt.Sprintf("| Total Code Owners | %d |\n", s.TotalCodeOwners))
	b.WriteString(fmt.Sprintf("| Valid CODEOWNERS Files | %d |\n", s.ValidReviewerFiles))
	b.WriteString(fmt.Sprintf("| Correct | %d |\n", s.Correct))
	b.WriteString(fmt.Sprintf("| Incorrect | %d |\n", s.Incorrect))
	b.WriteString(fmt.Sprintf("| Missing | %d |\n", s.Missing))
	b.WriteString(fmt.Sprintf("| Access Errors | %d |\n", s.AccessErrors))
	b.WriteString("\n")

	b.WriteString("## Repositories\n\n")
	entries := r.Repositories()
	if len(entries) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, e := range entries {
			b.WriteString(fmt.Sprintf("- %s\n", escapeInline(e.Repository.Slug())))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Members\n\n")
	members := r.Members()
	if len(members) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, mem := range members {
			if mem.IsAdmin() {
				b.WriteString(fmt.Sprintf("- %s (admin)\n", escapeInline(mem.Login)))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s\n", escapeInline(mem.Login)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Code Owners\n\n")
	owners := r.CodeOwners()
	if len(owners) == 0 {
		b.WriteString("- None\n\n")
	} else {
		for _, o := range owners {
			b.WriteString(fmt.Sprintf("- %s\n", escapeInline(o)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Detailed Report\n\n")
	rows := detailRows(r)
	if len(rows) == 0 {
		b.WriteString("No repositories audited.\n")
		return b.String()
	}
	b.WriteString("| Repository Name | Configuration | Status | Current Value | Expected Value |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, row := range rows {
		status := row.Status
		if !row.compliant() {
			status = "**" + status + "**"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			escapeCell(row.Repository), escapeCell(row.Configuration), status, escapeCell(row.Current), escapeCell(row.Expected)))
	}
	return b.String()
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
