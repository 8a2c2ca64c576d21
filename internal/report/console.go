package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ecommerce-keyword-report/internal/models"
)

const ruleWidth = 100

// Console writes the batch report: source details, the detailed keyword table,
// the category summary and the statistics block.
func Console(w io.Writer, a *models.Analysis) error {
	style := consoleStyle(w)
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", ruleWidth)

	p.Fprintf(w, "%s\n%s - KEYWORD CATEGORIZATION ANALYSIS\n%s\n\n", rule, strings.ToUpper(a.File), rule)
	p.Fprintf(w, "File: %s\n", a.File)
	if a.Sheet != "" {
		p.Fprintf(w, "Sheet: %s\n", a.Sheet)
	}
	p.Fprintf(w, "Size: %d rows x %d columns\n", a.Rows, a.Columns)
	p.Fprintf(w, "Column: %s\n", a.Column)
	p.Fprintf(w, "Records analyzed: %d\n\n", a.Result.Stats.Records)

	if a.Result.Empty() {
		fmt.Fprintln(w, "No keywords found.")
		return nil
	}

	detail := detailTable(a.Result, true)
	detail.SetStyle(style)
	detail.SetTitle("DETAILED KEYWORD CATEGORIZATION TABLE")
	fmt.Fprintln(w, detail.Render())
	fmt.Fprintln(w)

	summary := summaryTable(a.Result)
	summary.SetStyle(style)
	summary.SetTitle("CATEGORY SUMMARY TABLE")
	fmt.Fprintln(w, summary.Render())
	fmt.Fprintln(w)

	Stats(w, a)
	return nil
}

// Stats writes the statistics block with locale-grouped numbers.
func Stats(w io.Writer, a *models.Analysis) {
	p := message.NewPrinter(language.English)
	s := a.Result.Stats
	p.Fprintf(w, "STATISTICS\n%s\n", strings.Repeat("-", ruleWidth))
	p.Fprintf(w, "Total unique keywords: %d\n", s.UniqueKeywords)
	p.Fprintf(w, "Total keyword occurrences: %d\n", s.Occurrences)
	p.Fprintf(w, "Total tokens before filtering: %d\n", s.RawTokens)
	p.Fprintf(w, "Total categories: %d\n", s.Categories)
	p.Fprintf(w, "Average keywords per category: %.1f\n", s.AvgKeywordsPerCategory)
	p.Fprintf(w, "Average occurrences per keyword: %.1f\n", s.AvgOccurrencesPerKeyword)
}

// PreviewConsole prints the shape, headers and first rows of a table.
func PreviewConsole(w io.Writer, pv *models.Preview) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "File: %s\n", pv.File)
	if pv.Sheet != "" {
		p.Fprintf(w, "Sheet: %s\n", pv.Sheet)
	}
	p.Fprintf(w, "Size: %d rows x %d columns\n", pv.Rows, pv.Columns)
	p.Fprintf(w, "Columns: %s\n\n", strings.Join(pv.Headers, ", "))
	tw := previewTable(pv)
	tw.SetStyle(consoleStyle(w))
	fmt.Fprintln(w, tw.Render())
}
