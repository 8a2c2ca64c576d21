package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/config"
	"ecommerce-keyword-report/internal/models"
	"ecommerce-keyword-report/internal/report"
)

const defaultInput = "eCOMMERCE_1.xlsx"

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		input     string
		column    string
		sheetName string
		outputDir string
		format    string
		rulesFile string
		noCSV     bool
		preset    string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Categorize the keywords of one column and write the report",
		Long: "Read a workbook (xlsx, csv, html or ndjson, local or http[s]), tokenize one column,\n" +
			"drop stopwords and short tokens, and group the keywords into categories.\n" +
			"When --column is empty the column is detected from input.column_hints.\n" +
			"--preset NAME takes input, sheet and column from a [[presets]] entry; explicit flags still win.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger(cmd)

			format = stringFlag(cmd, "format", format, cfg.Report.Format)
			switch format {
			case "console", "json", "ndjson", "html":
			default:
				return fmt.Errorf("%w: unknown format %q", config.ErrInvalidConfig, format)
			}

			an, err := ctx.analyzer(rulesFile)
			if err != nil {
				return err
			}

			req := analyzer.Request{
				Source: input,
				Sheet:  stringFlag(cmd, "sheet", sheetName, cfg.Input.Sheet),
				Column: stringFlag(cmd, "column", column, cfg.Input.Column),
			}
			if preset != "" {
				p, err := cfg.Preset(preset)
				if err != nil {
					return err
				}
				req.Source = stringFlag(cmd, "input", input, p.Path)
				req.Sheet = stringFlag(cmd, "sheet", sheetName, p.Sheet)
				req.Column = stringFlag(cmd, "column", column, p.Column)
			}
			log.Debug().Str("source", req.Source).Str("column", req.Column).Msg("analyzing")

			a, err := an.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			log.Info().
				Str("column", a.Column).
				Int("records", a.Result.Stats.Records).
				Int("keywords", a.Result.Stats.UniqueKeywords).
				Msg("analysis complete")

			if err := writeReport(cmd, format, a); err != nil {
				return err
			}

			if noCSV {
				return nil
			}
			dir := stringFlag(cmd, "output-dir", outputDir, cfg.Report.OutputDir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			detail := filepath.Join(dir, cfg.Report.DetailFile)
			summary := filepath.Join(dir, cfg.Report.SummaryFile)
			if err := report.SaveCSV(detail, summary, a.Result); err != nil {
				return err
			}
			log.Info().Str("detail", detail).Str("summary", summary).Msg("csv reports saved")
			if format == "console" {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nDetailed results saved to: %s\n", detail)
				fmt.Fprintf(out, "Summary saved to: %s\n", summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", defaultInput, "Workbook path or http(s) URL")
	cmd.Flags().StringVar(&column, "column", "", "Column to analyze (detected when empty)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (first sheet when empty)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the CSV reports")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format: console, json, ndjson or html")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Rule file (.yaml or .toml) overriding the built-in categories")
	cmd.Flags().BoolVar(&noCSV, "no-csv", false, "Skip writing the CSV reports")
	cmd.Flags().StringVar(&preset, "preset", "", "Named quick analysis from the [[presets]] config")
	return cmd
}

func writeReport(cmd *cobra.Command, format string, a *models.Analysis) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return report.WriteJSON(out, a)
	case "ndjson":
		return report.WriteNDJSON(out, report.Rows(a.Result))
	case "html":
		return report.HTMLDocument(out, a)
	default:
		return report.Console(out, a)
	}
}
