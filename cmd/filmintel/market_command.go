package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filmintel/internal/market"
)

func newMarketCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showContext bool

	cmd := &cobra.Command{
		Use:   "market [synopsis-file]",
		Short: "Retrieve comparable released titles for a synopsis",
		Long: `Extract search terms from a synopsis, query TMDB and OMDb for
comparable released titles, and show the merged results. With
--context the formatted prompt context block is printed instead.

Reads the synopsis from the given file, or from stdin when no file
(or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			synopsis, err := readTextInput(cmd, args)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pipeline, closer, err := ctx.newPipeline(cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}
			defer closer()

			if showContext {
				contextText, _, err := pipeline.BuildContext(cmd.Context(), synopsis)
				if err != nil {
					return err
				}
				if contextText == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No comparable titles found.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), contextText)
				return nil
			}

			records, err := pipeline.Comparables(cmd.Context(), synopsis)
			if err != nil {
				return err
			}

			if jsonOutput || !stdoutIsTerminal() {
				return writeJSON(cmd, records)
			}
			renderComparables(cmd, records)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&showContext, "context", false, "Print the formatted prompt context block")
	return cmd
}

func renderComparables(cmd *cobra.Command, records []market.Record) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No comparable titles found.")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Title,
			formatYear(rec.Year),
			strings.Join(rec.Genres, ", "),
			formatMoney(rec.Revenue),
			formatMoney(rec.Budget),
			formatRating(rec.Rating),
			string(rec.Source),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Year", "Genres", "Revenue", "Budget", "Rating", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight}))
}

