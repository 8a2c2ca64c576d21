// Package analyzer ties the sheet reader to the categorizer so the batch report and
// the UI server run exactly the same pipeline.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/fetch"
	"ecommerce-keyword-report/internal/models"
	"ecommerce-keyword-report/internal/sheet"
)

// ErrColumnRequired is returned when no column was named and detection is off.
var ErrColumnRequired = errors.New("column name is required")

type Analyzer struct {
	cat     *categorizer.Categorizer
	fetcher *fetch.HTTPClient
	hints   []string
}

// New builds an Analyzer. hints enable column auto-detection when a request
// leaves the column empty; pass none to require an explicit column.
func New(cat *categorizer.Categorizer, fetcher *fetch.HTTPClient, hints ...string) *Analyzer {
	return &Analyzer{cat: cat, fetcher: fetcher, hints: hints}
}

// Request names the source to read. Name overrides the display name (uploads).
// RawCSV asks Preview to include the whole sheet as CSV text.
type Request struct {
	Source string
	Name   string
	Sheet  string
	Column string
	RawCSV bool
}

func (a *Analyzer) Categorizer() *categorizer.Categorizer { return a.cat }

func (a *Analyzer) open(ctx context.Context, req Request) (*sheet.Table, error) {
	return sheet.Open(ctx, req.Source, sheet.Options{Sheet: req.Sheet, Name: req.Name, Fetcher: a.fetcher})
}

// Preview returns the table shape and its first n rows.
func (a *Analyzer) Preview(ctx context.Context, req Request, n int) (*models.Preview, error) {
	t, err := a.open(ctx, req)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	p := t.Preview(n)
	pv := &models.Preview{
		File:    t.Name,
		Sheet:   t.Sheet,
		Rows:    rows,
		Columns: cols,
		Headers: p.Headers,
		Data:    p.Rows,
	}
	if req.RawCSV {
		var buf strings.Builder
		if err := t.WriteCSV(&buf); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
		pv.CSV = buf.String()
	}
	return pv, nil
}

// Analyze reads the requested column and categorizes its non-blank values.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.Analysis, error) {
	t, err := a.open(ctx, req)
	if err != nil {
		return nil, err
	}

	column := strings.TrimSpace(req.Column)
	if column == "" {
		if len(a.hints) == 0 {
			return nil, ErrColumnRequired
		}
		if column, err = t.DetectColumn(a.hints...); err != nil {
			return nil, err
		}
	}
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	rows, cols := t.Shape()
	return &models.Analysis{
		Source:  req.Source,
		File:    t.Name,
		Sheet:   t.Sheet,
		Column:  col.Name,
		Rows:    rows,
		Columns: cols,
		Result:  a.cat.Categorize(col.Values),
	}, nil
}
