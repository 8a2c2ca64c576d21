package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ecommerce-keyword-report/internal/categorizer"
)

// RuleFile is the on-disk shape of a custom rule set. Omitted tables fall back
// to the built-in defaults.
type RuleFile struct {
	Stopwords []string           `yaml:"stopwords" toml:"stopwords"`
	Rules     []categorizer.Rule `yaml:"rules" toml:"rules"`
}

// LoadRules parses a .yaml/.yml or .toml rule file.
func LoadRules(path string) (categorizer.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return categorizer.Config{}, fmt.Errorf("read rules: %w", err)
	}

	var rf RuleFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rf)
	case ".toml":
		err = toml.Unmarshal(data, &rf)
	default:
		return categorizer.Config{}, fmt.Errorf("%w: rules file must be .yaml, .yml or .toml", ErrInvalidConfig)
	}
	if err != nil {
		return categorizer.Config{}, fmt.Errorf("parse rules %s: %w", path, err)
	}

	cfg := categorizer.DefaultConfig()
	if rf.Stopwords != nil {
		cfg.Stopwords = categorizer.StopwordSet(rf.Stopwords...)
	}
	if rf.Rules != nil {
		cfg.Rules = rf.Rules
	}
	if err := cfg.Validate(); err != nil {
		return categorizer.Config{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return cfg, nil
}

// Categorizer resolves the tables the categorizer should run with.
func (c *Config) Categorizer() (categorizer.Config, error) {
	cc := categorizer.DefaultConfig()
	if c.Analysis.RulesFile != "" {
		loaded, err := LoadRules(c.Analysis.RulesFile)
		if err != nil {
			return categorizer.Config{}, err
		}
		cc = loaded
	}
	for _, w := range c.Analysis.ExtraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			cc.Stopwords[w] = struct{}{}
		}
	}
	return cc, nil
}
