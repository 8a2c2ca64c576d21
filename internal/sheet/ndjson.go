package sheet

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// readNDJSON reads one JSON object per line. Headers are the union of keys,
// ordered by first appearance (keys within one object sorted); null becomes blank.
func readNDJSON(data []byte) (*Table, error) {
	var (
		headers []string
		index   = map[string]int{}
		records []map[string]any
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, fmt.Errorf("parse ndjson line %d: %w", line, err)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(headers)
				headers = append(headers, k)
			}
		}
		records = append(records, obj)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, ErrEmpty
	}

	raw := make([][]string, 0, len(records)+1)
	raw = append(raw, headers)
	for _, obj := range records {
		row := make([]string, len(headers))
		for k, v := range obj {
			row[index[k]] = cellText(v)
		}
		raw = append(raw, row)
	}
	return newTable("", raw)
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
