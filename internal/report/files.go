package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ecommerce-keyword-report/internal/categorizer"
)

// WriteDetailCSV writes Category,Keyword,Count,Percentage rows in presentation order.
func WriteDetailCSV(w io.Writer, res categorizer.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Keyword", "Count", "Percentage"}); err != nil {
		return err
	}
	for _, k := range res.Keywords {
		if err := cw.Write([]string{k.Category, k.Keyword, strconv.Itoa(k.Count), Percent(k.Percent)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes Category,Keywords,Total Count,Percentage rows.
func WriteSummaryCSV(w io.Writer, res categorizer.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Keywords", "Total Count", "Percentage"}); err != nil {
		return err
	}
	for _, s := range res.Summaries {
		if err := cw.Write([]string{s.Category, strconv.Itoa(s.Keywords), strconv.Itoa(s.Occurrences), Percent(s.Percent)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes both CSV files, creating their directories.
func SaveCSV(detailPath, summaryPath string, res categorizer.Result) error {
	if err := writeFile(detailPath, func(w io.Writer) error { return WriteDetailCSV(w, res) }); err != nil {
		return err
	}
	return writeFile(summaryPath, func(w io.Writer) error { return WriteSummaryCSV(w, res) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON(w io.Writer, items []any) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// Rows flattens a result into NDJSON records: one per keyword, then one per category.
func Rows(res categorizer.Result) []any {
	items := make([]any, 0, len(res.Keywords)+len(res.Summaries))
	for _, k := range res.Keywords {
		items = append(items, struct {
			Type string `json:"type"`
			categorizer.CategorizedKeyword
		}{"keyword", k})
	}
	for _, s := range res.Summaries {
		items = append(items, struct {
			Type string `json:"type"`
			categorizer.CategorySummary
		}{"category", s})
	}
	return items
}
