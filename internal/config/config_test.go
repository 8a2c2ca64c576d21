package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-keyword-report/internal/categorizer"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KWCAT_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "kw.toml", `
[input]
column = " Prerequisites "

[report]
format = "JSON"
output_dir = "out"

[logging]
level = "debug"
`)
	t.Setenv("KWCAT_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("KWCAT_UPLOAD_LIMIT_MB", "5")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Prerequisites", cfg.Input.Column)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.UploadLimitMB)
	assert.Equal(t, filepath.Join("out", "ecommerce_keyword_detailed.csv"), cfg.DetailPath())
	assert.Equal(t, filepath.Join("out", "ecommerce_keyword_summary.csv"), cfg.SummaryPath())
}

func TestLoadFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "env.toml", "[server]\npreview_rows = 3\n")
	t.Setenv("KWCAT_CONFIG", p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Server.PreviewRows)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.Report.Format = "pdf" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"detail file", func(c *Config) { c.Report.DetailFile = "" }},
		{"upload", func(c *Config) { c.Server.UploadLimitMB = 0 }},
		{"preview", func(c *Config) { c.Server.PreviewRows = -1 }},
		{"fetch", func(c *Config) { c.Server.FetchSizeCapMB = 0 }},
		{"allowed host", func(c *Config) { c.Server.AllowedHosts = []string{""} }},
		{"preset path", func(c *Config) { c.Presets = []Preset{{Name: "a"}} }},
		{"preset dup", func(c *Config) { c.Presets = []Preset{{Name: "a", Path: "x"}, {Name: "a", Path: "y"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsBadUploadLimitEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KWCAT_CONFIG", "")
	t.Setenv("KWCAT_UPLOAD_LIMIT_MB", "lots")

	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "KWCAT_UPLOAD_LIMIT_MB")
}

func TestLoadPresetsAndAccess(t *testing.T) {
	p := writeFile(t, t.TempDir(), "kw.toml", `
[server]
data_root = " /srv/sheets "
allowed_hosts = [" Docs.Google.com ", ".example.com"]

[[presets]]
name = "Prerequisites"
path = "eCOMMERCE_1.xlsx"
column = " Prerequisites "

[[presets]]
name = "Steps"
path = "cases.csv"
sheet = "Sheet2"
column = "Steps"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/sheets", cfg.Server.DataRoot)
	assert.Equal(t, []string{"docs.google.com", ".example.com"}, cfg.Server.AllowedHosts)
	require.Len(t, cfg.Presets, 2)

	pr, err := cfg.Preset("Prerequisites")
	require.NoError(t, err)
	assert.Equal(t, Preset{Name: "Prerequisites", Path: "eCOMMERCE_1.xlsx", Column: "Prerequisites"}, pr)

	pr, err = cfg.Preset(" Steps ")
	require.NoError(t, err)
	assert.Equal(t, "Sheet2", pr.Sheet)

	_, err = cfg.Preset("Expected")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestSampleMatchesDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, toml.Unmarshal([]byte(Sample()), &cfg))
	cfg.Analysis.ExtraStopwords = nil
	assert.Equal(t, Default(), cfg)

	p := filepath.Join(t.TempDir(), "nested", "kwreport.toml")
	require.NoError(t, CreateSample(p))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, Sample(), string(data))
}

func TestLoadRulesYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "rules.yaml", `
stopwords: [alpha, Beta]
rules:
  - name: Greek
    triggers: [gamma, delta]
`)
	cc, err := LoadRules(p)
	require.NoError(t, err)
	require.Len(t, cc.Rules, 1)
	assert.Equal(t, "Greek", cc.Rules[0].Name)
	assert.Contains(t, cc.Stopwords, "beta")
	assert.NotContains(t, cc.Stopwords, "the")

	res := categorizer.New(cc).Categorize([]string{"alpha gammaray deltas epsilon"})
	assert.Equal(t, "Greek", res.Summaries[0].Category)
	assert.Equal(t, 2, res.Summaries[0].Keywords)
}

func TestLoadRulesTOMLKeepsDefaultStopwords(t *testing.T) {
	p := writeFile(t, t.TempDir(), "rules.toml", `
[[rules]]
name = "Tickets"
triggers = ["ticket"]
`)
	cc, err := LoadRules(p)
	require.NoError(t, err)
	assert.Contains(t, cc.Stopwords, "the")
	assert.Equal(t, "Tickets", cc.Rules[0].Name)
}

func TestLoadRulesInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRules(writeFile(t, dir, "r.json", `{}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadRules(writeFile(t, dir, "r.yaml", "rules:\n  - name: Other\n    triggers: [x]\n"))
	assert.ErrorIs(t, err, categorizer.ErrInvalidConfig)
}

func TestCategorizerExtraStopwords(t *testing.T) {
	cfg := Default()
	cfg.Analysis.ExtraStopwords = []string{" Cart "}
	cc, err := cfg.Categorizer()
	require.NoError(t, err)
	assert.Contains(t, cc.Stopwords, "cart")
	assert.Len(t, cc.Rules, 8)
}
