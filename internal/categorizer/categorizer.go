package categorizer

import (
	"regexp"
	"sort"
	"strings"
)

// minTokenLen is the shortest keyword kept; anything of two letters or less is noise.
const minTokenLen = 3

var tokenRe = regexp.MustCompile(`[a-z_]+`)

// Categorizer groups keyword frequencies into named categories.
// It holds only immutable tables and is safe for concurrent use.
type Categorizer struct {
	cfg Config
}

func New(cfg Config) *Categorizer { return &Categorizer{cfg: cfg.clone()} }

// Rules returns a copy of the rules in precedence order.
func (c *Categorizer) Rules() []Rule {
	return c.cfg.clone().Rules
}

// Stopwords returns the stopword list sorted alphabetically.
func (c *Categorizer) Stopwords() []string {
	out := make([]string, 0, len(c.cfg.Stopwords))
	for w := range c.cfg.Stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Tokenize lower-cases text and returns every run of ASCII letters or underscores in order.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Keep reports whether a raw token survives length and stopword filtering.
func (c *Categorizer) Keep(token string) bool {
	if len(token) < minTokenLen {
		return false
	}
	_, stop := c.cfg.Stopwords[token]
	return !stop
}

// Match returns the first category whose triggers occur anywhere inside keyword,
// or OtherCategory.
func (c *Categorizer) Match(keyword string) string {
	for _, r := range c.cfg.Rules {
		for _, t := range r.Triggers {
			if strings.Contains(keyword, t) {
				return r.Name
			}
		}
	}
	return OtherCategory
}

// Categorize runs the full pipeline over corpus. Values are joined with a single
// space, so callers must drop missing cells beforehand.
func (c *Categorizer) Categorize(corpus []string) Result {
	raw := Tokenize(strings.Join(corpus, " "))

	freq := make(map[string]int)
	var total int
	for _, tok := range raw {
		if !c.Keep(tok) {
			continue
		}
		freq[tok]++
		total++
	}

	groups := make(map[string][]CategorizedKeyword)
	for kw, n := range freq {
		cat := c.Match(kw)
		groups[cat] = append(groups[cat], CategorizedKeyword{
			Category: cat,
			Keyword:  kw,
			Count:    n,
			Percent:  percent(n, total),
		})
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sortCategories(names)

	res := Result{
		Keywords:  make([]CategorizedKeyword, 0, len(freq)),
		Summaries: make([]CategorySummary, 0, len(names)),
	}
	for _, name := range names {
		list := groups[name]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count == list[j].Count {
				return list[i].Keyword < list[j].Keyword
			}
			return list[i].Count > list[j].Count
		})
		sum := 0
		for _, k := range list {
			sum += k.Count
		}
		for i := range list {
			list[i].CategoryPercent = percent(list[i].Count, sum)
		}
		res.Keywords = append(res.Keywords, list...)
		res.Summaries = append(res.Summaries, CategorySummary{
			Category:    name,
			Keywords:    len(list),
			Occurrences: sum,
			Percent:     percent(sum, total),
		})
	}

	res.Stats = Stats{
		Records:        len(corpus),
		RawTokens:      len(raw),
		Occurrences:    total,
		UniqueKeywords: len(freq),
		Categories:     len(names),
	}
	if len(names) > 0 {
		res.Stats.AvgKeywordsPerCategory = float64(len(freq)) / float64(len(names))
	}
	if len(freq) > 0 {
		res.Stats.AvgOccurrencesPerKeyword = float64(total) / float64(len(freq))
	}
	return res
}

// sortCategories orders names alphabetically with OtherCategory last.
func sortCategories(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if names[i] == OtherCategory {
			return false
		}
		if names[j] == OtherCategory {
			return true
		}
		return names[i] < names[j]
	})
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
