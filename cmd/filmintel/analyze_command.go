package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmintel/internal/analysis"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze [script-file]",
		Short: "Analyze a screenplay",
		Long: `Analyze a full screenplay: narrative structure, characters, the
emotional arc across story beats, an aggregate story score, and
marketing tags with target audiences.

Reads the screenplay from the given file, or from stdin when no file
(or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readTextInput(cmd, args)
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

			result, err := analyzer.AnalyzeScript(cmd.Context(), script)
			if err != nil {
				return err
			}

			if jsonOutput || !stdoutIsTerminal() {
				return writeJSON(cmd, result)
			}
			renderScriptAnalysis(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	return cmd
}

func renderScriptAnalysis(cmd *cobra.Command, result *analysis.ScriptAnalysis) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Story score: %d\n", result.StoryScore)
	if len(result.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(result.Tags, ", "))
	}
	if len(result.Audience) > 0 {
		fmt.Fprintf(out, "Audience: %s\n", strings.Join(result.Audience, ", "))
	}

	if len(result.EmotionalArc) > 0 {
		rows := make([][]string, 0, len(result.EmotionalArc))
		for _, point := range result.EmotionalArc {
			rows = append(rows, []string{
				point.Point,
				strconv.Itoa(point.Valence),
				strconv.Itoa(point.Arousal),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Beat", "Valence", "Arousal"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight}))
	}

	if len(result.Characters) > 0 {
		rows := make([][]string, 0, len(result.Characters))
		for _, ch := range result.Characters {
			rows = append(rows, []string{ch.Name, ch.Role, ch.Archetype, ch.Description})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Character", "Role", "Archetype", "Description"},
			rows,
			nil))
	}
}
