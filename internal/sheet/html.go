package sheet

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// readHTML reads the first <table> of an HTML document. The caption, when present,
// stands in for the sheet name.
func readHTML(data []byte, contentType string) (*Table, error) {
	utf8data, err := toUTF8(data, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: document has no <table>", ErrEmpty)
	}

	// Remove script & style
	table.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	var rows [][]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var row []string
		tr.Find("th,td").Each(func(j int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(whitespaceRe.ReplaceAllString(cell.Text(), " ")))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	name := strings.TrimSpace(table.Find("caption").First().Text())
	return newTable(name, rows)
}
