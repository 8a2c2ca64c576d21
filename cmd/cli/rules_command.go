package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecommerce-keyword-report/internal/report"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	var rulesFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective stopwords and category rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.categorizer(rulesFile)
			if err != nil {
				return err
			}
			stopwords := cat.Stopwords()
			rules := cat.Rules()

			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), map[string]any{"stopwords": stopwords, "rules": rules})
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(rules))
			for i, r := range rules {
				rows = append(rows, []string{fmt.Sprint(i + 1), r.Name, strings.Join(r.Triggers, ", ")})
			}
			if err := report.RenderTable(out, []string{"#", "Category", "Triggers"}, rows, []report.Alignment{report.AlignRight}); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nStopwords (%d): %s\n", len(stopwords), strings.Join(stopwords, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "Rule file (.yaml or .toml) to inspect instead of the configured one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}
