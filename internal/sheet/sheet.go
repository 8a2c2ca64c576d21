// Package sheet reads tabular sources (workbooks, CSV, HTML tables, NDJSON) into a
// header-plus-rows Table and resolves the free-text column the report analyzes.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"ecommerce-keyword-report/internal/fetch"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmpty             = errors.New("no header row")
)

// ColumnNotFoundError carries the headers that were available.
type ColumnNotFoundError struct {
	Name      string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found (available columns: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// Format identifies a source encoding.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatHTML   Format = "html"
	FormatNDJSON Format = "ndjson"
)

// Options tunes Open. Name overrides the display name and the extension used for
// format detection, which lets uploads keep their original file name.
type Options struct {
	Sheet   string
	Name    string
	Fetcher *fetch.HTTPClient
}

// Table is a rectangular view of one sheet: every row has len(Headers) cells.
type Table struct {
	Name    string     `json:"name"`
	Sheet   string     `json:"sheet"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Column holds the non-blank values of one column in row order.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Open loads source, a local path or an http(s) URL.
func Open(ctx context.Context, source string, opts Options) (*Table, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrFileNotFound
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	name := opts.Name
	if fetch.IsRemote(source) {
		data, contentType, err = download(ctx, source, opts.Fetcher)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = remoteName(source)
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, source)
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		if name == "" {
			name = filepath.Base(source)
		}
	}

	format, err := DetectFormat(name, contentType)
	if err != nil {
		return nil, err
	}

	var t *Table
	switch format {
	case FormatXLSX:
		t, err = readXLSX(data, opts.Sheet)
	case FormatCSV:
		t, err = readCSV(data, contentType)
	case FormatHTML:
		t, err = readHTML(data, contentType)
	case FormatNDJSON:
		t, err = readNDJSON(data)
	}
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// DetectFormat picks a reader from the file extension, falling back to the media type.
func DetectFormat(name, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, nil
	case "text/csv":
		return FormatCSV, nil
	case "text/html", "application/xhtml+xml":
		return FormatHTML, nil
	case "application/x-ndjson", "application/jsonl":
		return FormatNDJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

func download(ctx context.Context, source string, client *fetch.HTTPClient) ([]byte, string, error) {
	if client == nil {
		client = fetch.NewHTTPClient(20*time.Second, 5*time.Second, 20<<20)
	}
	body, _, contentType, _, err := client.Fetch(ctx, source)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", source, err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", source, err)
	}
	return data, contentType, nil
}

func remoteName(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
		return base
	}
	return u.Host
}

// newTable squares up raw rows: the first row becomes the headers, blank headers
// are named "Unnamed: i", and fully blank rows are dropped.
func newTable(sheetName string, raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	width := 0
	for _, r := range raw {
		if len(r) > width {
			width = len(r)
		}
	}
	headers := make([]string, width)
	for i := range headers {
		if i < len(raw[0]) {
			headers[i] = strings.TrimSpace(raw[0][i])
		}
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make([]string, width)
		blank := true
		for i := 0; i < width && i < len(r); i++ {
			row[i] = r[i]
			if strings.TrimSpace(r[i]) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return &Table{Sheet: sheetName, Headers: headers, Rows: rows}, nil
}

// Shape returns the number of data rows and columns.
func (t *Table) Shape() (rows, cols int) { return len(t.Rows), len(t.Headers) }

// Preview returns a copy limited to the first n rows.
func (t *Table) Preview(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Name: t.Name, Sheet: t.Sheet, Headers: t.Headers, Rows: t.Rows[:n]}
}

// ColumnIndex resolves name case-insensitively.
func (t *Table) ColumnIndex(name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Headers {
		if strings.ToLower(h) == want {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Name: name, Available: t.Headers}
}

// Column returns the non-blank values under name, in row order.
func (t *Table) Column(name string) (*Column, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	col := &Column{Name: t.Headers[idx], Values: make([]string, 0, len(t.Rows))}
	for _, r := range t.Rows {
		if v := strings.TrimSpace(r[idx]); v != "" {
			col.Values = append(col.Values, r[idx])
		}
	}
	return col, nil
}

// DetectColumn returns the first header containing any hint, case-insensitively.
func (t *Table) DetectColumn(hints ...string) (string, error) {
	for _, h := range t.Headers {
		lh := strings.ToLower(h)
		for _, hint := range hints {
			if hint = strings.ToLower(strings.TrimSpace(hint)); hint != "" && strings.Contains(lh, hint) {
				return h, nil
			}
		}
	}
	return "", &ColumnNotFoundError{Name: strings.Join(hints, "|"), Available: t.Headers}
}
