package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// readCSV decodes data to UTF-8 (BOM, declared charset, then a guess) before parsing.
func readCSV(data []byte, contentType string) (*Table, error) {
	utf8data, err := toUTF8(data, contentType)
	if err != nil {
		return nil, err
	}
	utf8data = bytes.TrimPrefix(utf8data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(utf8data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return newTable("", rows)
}

// toUTF8 trusts a declared charset first. Undeclared data that is valid UTF-8 as a
// whole is kept as is; DetermineEncoding only sniffs the first 1024 bytes.
func toUTF8(data []byte, contentType string) ([]byte, error) {
	_, params, _ := mime.ParseMediaType(contentType)
	if params["charset"] == "" && utf8.Valid(data) {
		return data, nil
	}
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	return out, nil
}

// WriteCSV writes the headers and every row as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
