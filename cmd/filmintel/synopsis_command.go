package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmintel/internal/analysis"
)

func newSynopsisCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "synopsis [synopsis-file]",
		Short: "Build a story impact report from a synopsis",
		Long: `Assess a movie synopsis for creative and commercial potential.
Comparable released titles are retrieved from TMDB and OMDb and folded
into the assessment when provider credentials are configured.

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
			analyzer, closer, err := ctx.newAnalyzer(cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}
			defer closer()

			report, err := analyzer.AnalyzeSynopsis(cmd.Context(), synopsis)
			if err != nil {
				return err
			}

			if jsonOutput || !stdoutIsTerminal() {
				return writeJSON(cmd, report)
			}
			renderStoryImpactReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	return cmd
}

func renderStoryImpactReport(cmd *cobra.Command, report *analysis.StoryImpactReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, report.Title)
	if report.Logline != "" {
		fmt.Fprintln(out, report.Logline)
	}

	if len(report.TopLevelScore) > 0 {
		rows := make([][]string, 0, len(report.TopLevelScore))
		for _, name := range sortedScoreNames(report.TopLevelScore) {
			rows = append(rows, []string{name, strconv.Itoa(report.TopLevelScore[name])})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Score", "Value"},
			rows,
			[]columnAlignment{alignLeft, alignRight}))
	}

	insights := report.KeyInsights
	if insights.Summary != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, insights.Summary)
	}
	if len(insights.Genres) > 0 {
		fmt.Fprintf(out, "Genres: %s\n", strings.Join(insights.Genres, ", "))
	}
	if len(insights.Themes) > 0 {
		fmt.Fprintf(out, "Themes: %s\n", strings.Join(insights.Themes, ", "))
	}
	if len(insights.TargetAudience) > 0 {
		fmt.Fprintf(out, "Target audience: %s\n", strings.Join(insights.TargetAudience, ", "))
	}

	if len(report.EmotionalArcData) > 0 {
		rows := make([][]string, 0, len(report.EmotionalArcData))
		for _, point := range report.EmotionalArcData {
			rows = append(rows, []string{point.Point, strconv.Itoa(point.Intensity)})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Beat", "Intensity"},
			rows,
			[]columnAlignment{alignLeft, alignRight}))
	}

	if len(report.Characters) > 0 {
		rows := make([][]string, 0, len(report.Characters))
		for _, ch := range report.Characters {
			rows = append(rows, []string{
				ch.Role,
				ch.Attributes.Archetype,
				strconv.Itoa(ch.Attributes.AudienceAppealScore),
				strings.Join(ch.Attributes.ComparableActors, ", "),
				ch.DescriptionShort,
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Role", "Archetype", "Appeal", "Comparable Actors", "Description"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight}))
	}

	pitch := report.PitchReadyCopy
	if pitch.OneLiner != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "One-liner: %s\n", pitch.OneLiner)
	}
	for _, point := range pitch.KeyPitchPoints {
		fmt.Fprintf(out, "  - %s\n", point)
	}
}

func sortedScoreNames(scores map[string]int) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
