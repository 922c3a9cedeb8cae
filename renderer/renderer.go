// Package renderer turns ledger state into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/hfledger"
)

//go:embed templates/*.md
var templates embed.FS

// RenderReport renders the full ledger report: status, balances, pending
// bills and the most recent transactions.
func RenderReport(r *Report) (string, error) {
	partials := map[string]string{
		"report_title":    "report_title.md",
		"report_balances": "report_balances.md",
		"report_pending":  "report_pending.md",
		"report_recent":   "report_recent.md",
	}
	if len(r.Recent) == 0 {
		partials["report_recent"] = ""
	}
	return renderTemplate("report", "report.md", partials, r)
}

// LedgerReport renders the report of a ledger with its last n transactions.
func LedgerReport(l *hfledger.Ledger, n int) string {
	out, err := RenderReport(NewReport(l, n))
	if err != nil {
		return err.Error()
	}
	return out
}

// renderTemplate renders a main template that depends on several partials.
// An empty partial file name results in an empty template.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) (string, error) {
	tmpl, err := parse(template.New(templateName), mainFile)
	if err != nil {
		return "", err
	}
	for name, file := range partials {
		if _, err := parse(tmpl.New(name), file); err != nil {
			return "", fmt.Errorf("partial %q: %w", name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return "", fmt.Errorf("error executing template %q: %w", templateName, err)
	}
	return b.String(), nil
}

func parse(tmpl *template.Template, file string) (*template.Template, error) {
	var content []byte
	if file != "" {
		var err error
		content, err = fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("error reading template %q: %w", file, err)
		}
	}
	t, err := tmpl.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("error parsing template %q: %w", file, err)
	}
	return t, nil
}
