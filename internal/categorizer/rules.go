package categorizer

import (
	"errors"
	"fmt"
	"strings"
)

// OtherCategory collects every keyword that no rule matched.
const OtherCategory = "Other"

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid categorizer config")

// Rule assigns a keyword to Name when any trigger is a substring of it.
type Rule struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Triggers []string `json:"triggers" yaml:"triggers" toml:"triggers"`
}

// Config holds the fixed tables the categorizer works from.
// Rules are evaluated in slice order; the first match wins.
type Config struct {
	Stopwords map[string]struct{}
	Rules     []Rule
}

func DefaultConfig() Config {
	return Config{Stopwords: DefaultStopwords(), Rules: DefaultRules()}
}

var defaultStopwords = []string{
	"the", "and", "or", "a", "an", "in", "is", "has", "with", "for", "to", "of", "at", "by", "from", "on",
	"that", "this", "as", "be", "are", "was", "were", "been", "being", "have", "should", "must", "can",
	"will", "may", "could", "would", "it", "its", "if", "exists", "exist", "under", "also", "only", "not",
	"just", "some", "more", "no", "up", "out", "so", "do", "does", "did", "then", "there", "here", "each",
	"all", "which", "when", "what", "where", "who", "why", "how",
}

// DefaultStopwords returns a fresh copy of the built-in English function word list.
func DefaultStopwords() map[string]struct{} {
	return StopwordSet(defaultStopwords...)
}

// StopwordSet lower-cases words into a set.
func StopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// DefaultRules returns the built-in e-commerce categories in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "User/Account", Triggers: []string{"user", "account", "email", "pwd", "login", "email_addr", "emailid", "username", "password"}},
		{Name: "Product/Catalog", Triggers: []string{"product", "cart", "item", "catalog", "category", "sku", "inventory"}},
		{Name: "Order/Payment", Triggers: []string{"order", "checkout", "payment", "invoice", "bill", "transaction", "purchase"}},
		{Name: "Shipping/Delivery", Triggers: []string{"shipping", "delivery", "address", "zip", "postal", "package", "warehouse"}},
		{Name: "Status", Triggers: []string{"status", "processing", "delivered", "completed", "pending", "confirmed"}},
		{Name: "Refund/Return", Triggers: []string{"refund", "return", "exchange", "cancel", "reverse"}},
		{Name: "Pricing/Discount", Triggers: []string{"price", "discount", "coupon", "promo", "tax", "fee"}},
		{Name: "Search/Filter", Triggers: []string{"search", "filter", "sort", "browse", "find"}},
	}
}

// Validate rejects rule sets that would break the one-category-per-keyword partition.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Rules))
	for i, r := range c.Rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidConfig, i)
		}
		if name == OtherCategory {
			return fmt.Errorf("%w: rule name %q is reserved", ErrInvalidConfig, OtherCategory)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate rule %q", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}
		if len(r.Triggers) == 0 {
			return fmt.Errorf("%w: rule %q has no triggers", ErrInvalidConfig, name)
		}
		for _, t := range r.Triggers {
			if strings.TrimSpace(t) == "" {
				return fmt.Errorf("%w: rule %q has an empty trigger", ErrInvalidConfig, name)
			}
		}
	}
	return nil
}

// clone copies the tables so later caller mutation cannot leak into a Categorizer.
func (c Config) clone() Config {
	out := Config{
		Stopwords: make(map[string]struct{}, len(c.Stopwords)),
		Rules:     make([]Rule, 0, len(c.Rules)),
	}
	for w := range c.Stopwords {
		out.Stopwords[strings.ToLower(w)] = struct{}{}
	}
	for _, r := range c.Rules {
		triggers := make([]string, 0, len(r.Triggers))
		for _, t := range r.Triggers {
			triggers = append(triggers, strings.ToLower(strings.TrimSpace(t)))
		}
		out.Rules = append(out.Rules, Rule{Name: strings.TrimSpace(r.Name), Triggers: triggers})
	}
	return out
}
