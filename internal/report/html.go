package report

import (
	"html/template"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/models"
)

// Stylesheet styles the table fragments produced below.
const Stylesheet = `
body { font-family: Arial, sans-serif; padding: 20px; background-color: #f9f9f9; }
table { border-collapse: collapse; width: 100%; margin-bottom: 20px; }
th, td { padding: 12px; border: 1px solid #ddd; }
table.kw-summary thead th { background-color: #4CAF50; color: white; text-align: left; }
table.kw-detail thead th { background-color: #2196F3; color: white; text-align: left; }
table.kw-preview thead th { background-color: #607D8B; color: white; text-align: left; }
.error { color: #b00020; white-space: pre-line; font-weight: bold; }
`

func renderHTML(tw table.Writer, class string) template.HTML {
	style := table.StyleDefault
	style.HTML = table.HTMLOptions{
		CSSClass:    class,
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}
	tw.SetStyle(style)
	return template.HTML(tw.RenderHTML())
}

// HTMLSummary renders the category summary as an HTML table fragment.
func HTMLSummary(res categorizer.Result) template.HTML {
	return renderHTML(summaryTable(res), "kw-summary")
}

// HTMLDetail renders one row per keyword, repeating the category on every row.
func HTMLDetail(res categorizer.Result) template.HTML {
	return renderHTML(detailTable(res, false), "kw-detail")
}

func HTMLPreview(p *models.Preview) template.HTML {
	return renderHTML(previewTable(p), "kw-preview")
}

var documentTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>Keyword Analysis - {{.A.File}}</title>
<style>{{.CSS}}</style></head><body>
<h3>Keyword Analysis Results</h3>
<p><strong>File:</strong> {{.A.File}}{{if .A.Sheet}} ({{.A.Sheet}}){{end}}</p>
<p><strong>Column Analyzed:</strong> {{.A.Column}}</p>
<p><strong>Total Records:</strong> {{.A.Result.Stats.Records}}</p>
<p><strong>Unique Keywords:</strong> {{.A.Result.Stats.UniqueKeywords}}</p>
<p><strong>Total Occurrences:</strong> {{.A.Result.Stats.Occurrences}}</p>
<hr>
<h4>Category Summary</h4>
{{.Summary}}
<h4>Detailed Keyword Breakdown</h4>
{{.Detail}}
</body></html>
`))

// HTMLDocument writes a standalone HTML report.
func HTMLDocument(w io.Writer, a *models.Analysis) error {
	return documentTmpl.Execute(w, struct {
		A       *models.Analysis
		CSS     template.CSS
		Summary template.HTML
		Detail  template.HTML
	}{a, template.CSS(Stylesheet), HTMLSummary(a.Result), HTMLDetail(a.Result)})
}
