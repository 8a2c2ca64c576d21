package categorizer

type CategorizedKeyword struct {
	Category        string  `json:"category"`
	Keyword         string  `json:"keyword"`
	Count           int     `json:"count"`
	Percent         float64 `json:"percent"`
	CategoryPercent float64 `json:"categoryPercent"`
}

type CategorySummary struct {
	Category    string  `json:"category"`
	Keywords    int     `json:"keywords"`
	Occurrences int     `json:"occurrences"`
	Percent     float64 `json:"percent"`
}

// Stats mirrors the statistics block of the batch report.
// RawTokens counts tokens before length and stopword filtering.
type Stats struct {
	Records                  int     `json:"records"`
	RawTokens                int     `json:"rawTokens"`
	Occurrences              int     `json:"occurrences"`
	UniqueKeywords           int     `json:"uniqueKeywords"`
	Categories               int     `json:"categories"`
	AvgKeywordsPerCategory   float64 `json:"avgKeywordsPerCategory"`
	AvgOccurrencesPerKeyword float64 `json:"avgOccurrencesPerKeyword"`
}

// Result is ordered for presentation: categories by name with Other last,
// keywords by descending count then alphabetically.
type Result struct {
	Keywords  []CategorizedKeyword `json:"keywords"`
	Summaries []CategorySummary    `json:"summaries"`
	Stats     Stats                `json:"stats"`
}

func (r Result) Empty() bool { return len(r.Keywords) == 0 }

// Category returns the keywords assigned to name, in presentation order.
func (r Result) Category(name string) []CategorizedKeyword {
	var out []CategorizedKeyword
	for _, k := range r.Keywords {
		if k.Category == name {
			out = append(out, k)
		}
	}
	return out
}
