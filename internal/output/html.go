package output

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"ghsecaudit/internal/report"
)

const htmlStyle = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:1.5em}
th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}
th{background:#f3f3f3}
strong{color:#b00020}`

// HTMLRenderer writes a standalone HTML document. The body is the Markdown
// report converted with GFM tables and sanitized before it is embedded.
type HTMLRenderer struct {
	GeneratedAt time.Time
}

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)
	htmlPolicy = bluemonday.UGCPolicy()
)

func (h HTMLRenderer) Render(w io.Writer, r *report.AuditReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	body, err := renderMarkdownHTML(MarkdownRenderer{GeneratedAt: h.GeneratedAt}.build(r))
	if err != nil {
		return err
	}

	title := html.EscapeString(r.Organization() + " GitHub Audit Report")
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		title, htmlStyle, body); err != nil {
		return err
	}
	return flushRendered(w)
}

// renderMarkdownHTML converts Markdown to sanitized HTML.
func renderMarkdownHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}
