package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/models"
)

// Alignment sets how a table column is justified.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Percent renders a percentage with one decimal place.
func Percent(p float64) string { return fmt.Sprintf("%.1f%%", p) }

func newTable(headers []string, aligns []Alignment) table.Writer {
	tw := table.NewWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

// RenderTable writes rows under headers in the console style for w. Short rows
// are padded; columns past aligns are left aligned.
func RenderTable(w io.Writer, headers []string, rows [][]string, aligns []Alignment) error {
	if len(headers) == 0 {
		return nil
	}
	tw := newTable(headers, aligns)
	for _, r := range rows {
		row := make(table.Row, len(headers))
		for i := range row {
			if i < len(r) {
				row[i] = r[i]
			} else {
				row[i] = ""
			}
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(consoleStyle(w))
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// detailTable lists keywords grouped by category. With grouped set, the category
// name is printed on its first row only and categories are separated.
func detailTable(res categorizer.Result, grouped bool) table.Writer {
	tw := newTable(
		[]string{"Category", "Keyword", "Count", "% of Total", "% of Category"},
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	)
	prev := ""
	for i, k := range res.Keywords {
		cat := k.Category
		if grouped {
			if cat == prev {
				cat = ""
			} else if i > 0 {
				tw.AppendSeparator()
			}
		}
		prev = k.Category
		tw.AppendRow(table.Row{cat, k.Keyword, k.Count, Percent(k.Percent), Percent(k.CategoryPercent)})
	}
	return tw
}

func summaryTable(res categorizer.Result) table.Writer {
	tw := newTable(
		[]string{"Category", "Keywords", "Total Count", "% of Total"},
		[]Alignment{AlignLeft, AlignRight, AlignRight, AlignRight},
	)
	for _, s := range res.Summaries {
		tw.AppendRow(table.Row{s.Category, s.Keywords, s.Occurrences, Percent(s.Percent)})
	}
	return tw
}

func previewTable(p *models.Preview) table.Writer {
	tw := newTable(p.Headers, nil)
	for _, r := range p.Data {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}
	return tw
}

// consoleStyle picks rounded box drawing for terminals and plain ASCII otherwise.
func consoleStyle(w io.Writer) table.Style {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return table.StyleRounded
	}
	return table.StyleDefault
}
