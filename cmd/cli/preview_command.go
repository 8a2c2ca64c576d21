package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/report"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var (
		input     string
		sheetName string
		rows      int
		asJSON    bool
		rawCSV    bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the shape, columns and first rows of a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			an, err := ctx.analyzer("")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = cfg.Server.PreviewRows
			}
			pv, err := an.Preview(cmd.Context(), analyzer.Request{
				Source: input,
				Sheet:  stringFlag(cmd, "sheet", sheetName, cfg.Input.Sheet),
				RawCSV: rawCSV,
			}, rows)
			if err != nil {
				return err
			}
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), pv)
			}
			out := cmd.OutOrStdout()
			report.PreviewConsole(out, pv)
			if rawCSV {
				fmt.Fprintf(out, "\nRaw CSV Data:\n%s", pv.CSV)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", defaultInput, "Workbook path or http(s) URL")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (first sheet when empty)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&rawCSV, "csv", false, "Also print the whole sheet as CSV")
	return cmd
}
