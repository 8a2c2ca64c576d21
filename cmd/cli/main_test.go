package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-keyword-report/internal/config"
	"ecommerce-keyword-report/internal/models"
	"ecommerce-keyword-report/internal/sheet"
)

const casesCSV = "ID,Prerequisites\n" +
	"1,User must provide valid email and password\n" +
	"2,Cart must contain at least one item\n" +
	"3,Order status should be pending\n"

// setup moves into an empty directory so no stray kwreport.toml is picked up.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("KWCAT_CONFIG", "")
	t.Setenv("KWCAT_OUTPUT_DIR", "")
	t.Setenv("KWCAT_RULES_FILE", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases.csv"), []byte(casesCSV), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeJSONAndCSV(t *testing.T) {
	dir := setup(t)
	outDir := filepath.Join(dir, "reports")

	out, _, err := run(t, "analyze", "-i", "cases.csv", "--column", "Prerequisites", "-o", outDir, "-f", "json", "--log-level", "error")
	require.NoError(t, err)

	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "Prerequisites", a.Column)
	assert.Equal(t, 13, a.Result.Stats.UniqueKeywords)

	summary, err := os.ReadFile(filepath.Join(outDir, "ecommerce_keyword_summary.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(summary), "Category,"), string(summary))
	assert.FileExists(t, filepath.Join(outDir, "ecommerce_keyword_detailed.csv"))
}

func TestAnalyzeConsoleDetectsColumn(t *testing.T) {
	dir := setup(t)

	out, _, err := run(t, "analyze", "-i", "cases.csv", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "CASES.CSV - KEYWORD CATEGORIZATION ANALYSIS")
	assert.Contains(t, out, "Column: Prerequisites")
	assert.Contains(t, out, "Detailed results saved to: ecommerce_keyword_detailed.csv")
	assert.FileExists(t, filepath.Join(dir, "ecommerce_keyword_summary.csv"))
}

func TestAnalyzeNDJSONNoCSV(t *testing.T) {
	dir := setup(t)

	out, _, err := run(t, "analyze", "-i", "cases.csv", "--column", "prerequisites", "-f", "ndjson", "--no-csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], `"type":"keyword"`)
	assert.Contains(t, lines[len(lines)-1], `"category":"Other"`)
	assert.NoFileExists(t, filepath.Join(dir, "ecommerce_keyword_detailed.csv"))
}

func TestAnalyzeErrors(t *testing.T) {
	setup(t)

	_, _, err := run(t, "analyze", "-i", "cases.csv", "--column", "Steps", "--no-csv")
	assert.ErrorIs(t, err, sheet.ErrColumnNotFound)

	_, _, err = run(t, "analyze", "-i", "missing.xlsx", "--column", "x", "--no-csv")
	assert.ErrorIs(t, err, sheet.ErrFileNotFound)

	_, _, err = run(t, "analyze", "-i", "cases.csv", "--column", "Prerequisites", "-f", "pdf")
	assert.Error(t, err)
}

func TestAnalyzeWithRulesFile(t *testing.T) {
	dir := setup(t)
	rules := "rules:\n  - name: Identity\n    triggers: [email, password]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte(rules), 0o644))

	out, _, err := run(t, "analyze", "-i", "cases.csv", "--column", "Prerequisites", "--rules", "rules.yaml", "-f", "json", "--no-csv")
	require.NoError(t, err)

	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Len(t, a.Result.Summaries, 2)
	assert.Equal(t, "Identity", a.Result.Summaries[0].Category)
	assert.Equal(t, 2, a.Result.Summaries[0].Keywords)
}

func TestPreview(t *testing.T) {
	setup(t)

	out, _, err := run(t, "preview", "-i", "cases.csv", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Size: 3 rows x 2 columns")
	assert.Contains(t, out, "Columns: ID, Prerequisites")
	assert.Contains(t, out, "valid email")
	assert.NotContains(t, out, "pending")

	out, _, err = run(t, "preview", "-i", "cases.csv", "--json")
	require.NoError(t, err)
	var pv models.Preview
	require.NoError(t, json.Unmarshal([]byte(out), &pv))
	assert.Len(t, pv.Data, 3)
}

func TestPreviewRawCSV(t *testing.T) {
	setup(t)

	out, _, err := run(t, "preview", "-i", "cases.csv", "-n", "1", "--csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Raw CSV Data:\n"+casesCSV)

	out, _, err = run(t, "preview", "-i", "cases.csv", "-n", "1", "--csv", "--json")
	require.NoError(t, err)
	var pv models.Preview
	require.NoError(t, json.Unmarshal([]byte(out), &pv))
	assert.Len(t, pv.Data, 1)
	assert.Equal(t, casesCSV, pv.CSV)
}

func TestAnalyzePreset(t *testing.T) {
	dir := setup(t)
	conf := "[[presets]]\nname = \"prereq\"\npath = \"cases.csv\"\ncolumn = \"Prerequisites\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kwreport.toml"), []byte(conf), 0o644))

	out, _, err := run(t, "analyze", "--preset", "prereq", "-f", "json", "--no-csv")
	require.NoError(t, err)
	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "Prerequisites", a.Column)
	assert.Equal(t, 3, a.Result.Stats.Records)

	_, _, err = run(t, "analyze", "--preset", "prereq", "--column", "Steps", "--no-csv")
	assert.ErrorIs(t, err, sheet.ErrColumnNotFound)

	_, _, err = run(t, "analyze", "--preset", "steps", "--no-csv")
	assert.ErrorIs(t, err, config.ErrPresetNotFound)
}

func TestRules(t *testing.T) {
	setup(t)

	out, _, err := run(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "User/Account")
	assert.Contains(t, out, "Stopwords (64):")

	out, _, err = run(t, "rules", "--json")
	require.NoError(t, err)
	var body struct {
		Stopwords []string `json:"stopwords"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Len(t, body.Stopwords, 64)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := setup(t)
	target := filepath.Join(dir, "conf", "kwreport.toml")

	out, _, err := run(t, "config", "init", "-p", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")

	_, _, err = run(t, "config", "init", "-p", target)
	assert.ErrorContains(t, err, "already exists")

	out, _, err = run(t, "-c", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	_, _, err = run(t, "-c", filepath.Join(dir, "nope.toml"), "config", "validate")
	assert.Error(t, err)
}
