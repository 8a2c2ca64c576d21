package categorizer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywordsOf(ks []CategorizedKeyword) []string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		out = append(out, k.Keyword)
	}
	return out
}

func TestCategorizeScenario(t *testing.T) {
	cl := New(DefaultConfig())
	res := cl.Categorize([]string{
		"User must provide valid email and password",
		"Cart must contain at least one item",
		"Order status should be pending",
	})

	assert.ElementsMatch(t, []string{"user", "email", "password"}, keywordsOf(res.Category("User/Account")))
	assert.ElementsMatch(t, []string{"cart", "item"}, keywordsOf(res.Category("Product/Catalog")))
	assert.ElementsMatch(t, []string{"order"}, keywordsOf(res.Category("Order/Payment")))
	assert.ElementsMatch(t, []string{"status", "pending"}, keywordsOf(res.Category("Status")))
	// "one" has three letters and is not a stopword, so it survives filtering.
	assert.ElementsMatch(t, []string{"provide", "valid", "contain", "least", "one"}, keywordsOf(res.Category(OtherCategory)))

	for _, k := range res.Keywords {
		assert.NotContains(t, []string{"must", "and", "be", "at", "should"}, k.Keyword)
	}

	require.Len(t, res.Summaries, 5)
	names := make([]string, 0, len(res.Summaries))
	for _, s := range res.Summaries {
		names = append(names, s.Category)
	}
	assert.Equal(t, []string{"Order/Payment", "Product/Catalog", "Status", "User/Account", OtherCategory}, names)

	assert.Equal(t, 3, res.Stats.Records)
	assert.Equal(t, 13, res.Stats.Occurrences)
	assert.Equal(t, 13, res.Stats.UniqueKeywords)
	assert.Equal(t, 19, res.Stats.RawTokens)
}

func TestCategorizeEmptyCorpus(t *testing.T) {
	cl := New(DefaultConfig())
	for _, corpus := range [][]string{nil, {}, {"", "  "}, {"a an the of", "12 34"}} {
		res := cl.Categorize(corpus)
		assert.True(t, res.Empty())
		assert.Empty(t, res.Keywords)
		assert.Empty(t, res.Summaries)
		assert.Zero(t, res.Stats.Occurrences)
		assert.Zero(t, res.Stats.AvgKeywordsPerCategory)
		assert.Zero(t, res.Stats.AvgOccurrencesPerKeyword)
	}
}

func TestCategoryPrecedence(t *testing.T) {
	cl := New(DefaultConfig())
	tests := []struct {
		keyword string
		want    string
	}{
		{"cart", "Product/Catalog"},
		{"refundstatus", "Status"},
		{"userpwdreset", "User/Account"},
		{"orderitem", "Product/Catalog"},
		{"shippingaddress", "Shipping/Delivery"},
		{"cancelled", "Refund/Return"},
		{"taxes", "Pricing/Discount"},
		{"findings", "Search/Filter"},
		{"valid", OtherCategory},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, cl.Match(tt.keyword))
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Email_Addr must be 8+ chars; user-ID ok")
	assert.Equal(t, []string{"email_addr", "must", "be", "chars", "user", "id", "ok"}, got)
	assert.Empty(t, Tokenize("1234 !!"))
}

func TestCategorizeProperties(t *testing.T) {
	corpus := []string{
		"Login with username and password before checkout",
		"Apply coupon to reduce price; tax and fee are added at checkout",
		"Search and filter the catalog, then sort by price",
		"Refund is issued when the order is cancelled and the package returned",
		"Shipping address must include a valid zip code",
		"Order status moves from pending to processing to delivered",
		"The quick brown fox is not a keyword of interest",
		"it is what it is and so on and so forth",
	}
	cfg := DefaultConfig()
	cl := New(cfg)
	res := cl.Categorize(corpus)
	require.False(t, res.Empty())

	// partition: every filtered token appears exactly once across categories
	want := map[string]int{}
	total := 0
	for _, tok := range Tokenize(strings.Join(corpus, " ")) {
		if cl.Keep(tok) {
			want[tok]++
			total++
		}
	}
	seen := map[string]bool{}
	for _, k := range res.Keywords {
		require.False(t, seen[k.Keyword], "duplicate keyword %q", k.Keyword)
		seen[k.Keyword] = true
		assert.Equal(t, want[k.Keyword], k.Count, k.Keyword)
		assert.Greater(t, len(k.Keyword), 2)
		_, stop := cfg.Stopwords[k.Keyword]
		assert.False(t, stop, "stopword %q leaked", k.Keyword)
	}
	assert.Len(t, seen, len(want))

	// count conservation and percentage sum
	sum, pct := 0, 0.0
	for _, s := range res.Summaries {
		sum += s.Occurrences
		pct += math.Round(s.Percent*10) / 10
	}
	assert.Equal(t, total, sum)
	assert.Equal(t, total, res.Stats.Occurrences)
	assert.InDelta(t, 100.0, pct, 0.5)

	// Other is last and only present when something is uncategorized
	last := res.Summaries[len(res.Summaries)-1]
	assert.Equal(t, OtherCategory, last.Category)
	for i := 1; i < len(res.Summaries)-1; i++ {
		assert.Less(t, res.Summaries[i-1].Category, res.Summaries[i].Category)
	}
}

func TestNoOtherWhenEverythingMatches(t *testing.T) {
	res := New(DefaultConfig()).Categorize([]string{"cart cart item order refund"})
	for _, s := range res.Summaries {
		assert.NotEqual(t, OtherCategory, s.Category)
	}
	require.Len(t, res.Summaries, 3)
	assert.Equal(t, "Order/Payment", res.Summaries[0].Category)
	assert.Equal(t, "Product/Catalog", res.Summaries[1].Category)
	assert.Equal(t, 2, res.Summaries[1].Keywords)
	assert.Equal(t, 3, res.Summaries[1].Occurrences)
	assert.InDelta(t, 60.0, res.Summaries[1].Percent, 1e-9)
}

func TestKeywordOrderingTieBreak(t *testing.T) {
	cfg := Config{Stopwords: StopwordSet(), Rules: nil}
	res := New(cfg).Categorize([]string{"zeta alpha beta beta gamma"})
	assert.Equal(t, []string{"beta", "alpha", "gamma", "zeta"}, keywordsOf(res.Keywords))
	assert.InDelta(t, 40.0, res.Keywords[0].CategoryPercent, 1e-9)
	assert.InDelta(t, 40.0, res.Keywords[0].Percent, 1e-9)
}

func TestInjectedStopwords(t *testing.T) {
	cfg := Config{Stopwords: StopwordSet("Widget"), Rules: DefaultRules()}
	res := New(cfg).Categorize([]string{"the widget and the cart"})
	// "the" and "and" are only stopwords in the default list
	assert.ElementsMatch(t, []string{"the", "and", "cart"}, keywordsOf(res.Keywords))
}

func TestConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cl := New(cfg)
	cfg.Rules[1].Triggers[1] = "nothing"
	delete(cfg.Stopwords, "the")
	assert.Equal(t, "Product/Catalog", cl.Match("cart"))
	assert.False(t, cl.Keep("the"))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []Config{
		{Rules: []Rule{{Name: "", Triggers: []string{"x"}}}},
		{Rules: []Rule{{Name: OtherCategory, Triggers: []string{"x"}}}},
		{Rules: []Rule{{Name: "A", Triggers: []string{"x"}}, {Name: "A", Triggers: []string{"y"}}}},
		{Rules: []Rule{{Name: "A"}}},
		{Rules: []Rule{{Name: "A", Triggers: []string{" "}}}},
	}
	for _, c := range bad {
		assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
	}
}

func TestDefaults(t *testing.T) {
	cl := New(DefaultConfig())
	assert.Len(t, cl.Stopwords(), 64)
	rules := cl.Rules()
	require.Len(t, rules, 8)
	assert.Equal(t, "User/Account", rules[0].Name)
	assert.Equal(t, "Search/Filter", rules[7].Name)
}
