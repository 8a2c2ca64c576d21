package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/sheet"
)

func fixture(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cases.csv")
	body := "ID,Prerequisites,Expected\n" +
		"1,User must provide valid email and password,ok\n" +
		"2,Cart must contain at least one item,ok\n" +
		"3,,skipped\n" +
		"4,Order status should be pending,ok\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestAnalyzeExplicitColumn(t *testing.T) {
	a := New(categorizer.New(categorizer.DefaultConfig()), nil)
	got, err := a.Analyze(context.Background(), Request{Source: fixture(t), Column: "PREREQUISITES"})
	require.NoError(t, err)

	assert.Equal(t, "Prerequisites", got.Column)
	assert.Equal(t, "cases.csv", got.File)
	assert.Equal(t, 4, got.Rows)
	assert.Equal(t, 3, got.Columns)
	assert.Equal(t, 3, got.Result.Stats.Records)
	assert.Equal(t, 13, got.Result.Stats.UniqueKeywords)
}

func TestAnalyzeDetectsColumn(t *testing.T) {
	a := New(categorizer.New(categorizer.DefaultConfig()), nil, "prerequisite", "pre")
	got, err := a.Analyze(context.Background(), Request{Source: fixture(t)})
	require.NoError(t, err)
	assert.Equal(t, "Prerequisites", got.Column)
}

func TestAnalyzeErrors(t *testing.T) {
	a := New(categorizer.New(categorizer.DefaultConfig()), nil)
	_, err := a.Analyze(context.Background(), Request{Source: fixture(t)})
	assert.ErrorIs(t, err, ErrColumnRequired)

	_, err = a.Analyze(context.Background(), Request{Source: fixture(t), Column: "Steps"})
	assert.ErrorIs(t, err, sheet.ErrColumnNotFound)

	_, err = a.Analyze(context.Background(), Request{Source: "/does/not/exist.xlsx", Column: "x"})
	assert.ErrorIs(t, err, sheet.ErrFileNotFound)

	// the source is checked before the column
	_, err = a.Analyze(context.Background(), Request{Source: "/does/not/exist.xlsx"})
	assert.ErrorIs(t, err, sheet.ErrFileNotFound)
	_, err = a.Analyze(context.Background(), Request{})
	assert.ErrorIs(t, err, sheet.ErrFileNotFound)
}

func TestPreview(t *testing.T) {
	a := New(categorizer.New(categorizer.DefaultConfig()), nil)
	p, err := a.Preview(context.Background(), Request{Source: fixture(t)}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Rows)
	assert.Equal(t, 3, p.Columns)
	assert.Equal(t, []string{"ID", "Prerequisites", "Expected"}, p.Headers)
	assert.Len(t, p.Data, 2)
	assert.Empty(t, p.CSV)

	p, err = a.Preview(context.Background(), Request{Source: fixture(t), RawCSV: true}, 1)
	require.NoError(t, err)
	assert.Len(t, p.Data, 1)
	assert.True(t, strings.HasPrefix(p.CSV, "ID,Prerequisites,Expected\n1,User must provide"), p.CSV)
	assert.Contains(t, p.CSV, "4,Order status should be pending,ok\n")
}
