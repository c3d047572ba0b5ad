package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tastybuild/internal/buildrun"
	"github.com/mabhi256/tastybuild/utils"
)

var buildCompilerPath string

var buildCmd = &cobra.Command{
	Use:   "build [project-dir]",
	Short: "Incrementally compile a project",
	Long: `build scans the project's sources, determines which ones (and which of
their reverse dependents) are dirty since the last build, and recompiles
only those, cascading through the API-change dependency graph until a
fixed point is reached.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		report, err := buildrun.Build(context.Background(), buildrun.Options{
			ProjectRoot:  root,
			CompilerPath: buildCompilerPath,
		})
		if err != nil {
			return err
		}

		printBuildReport(report)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildCompilerPath, "compiler", "scalac", "path to the external compiler binary")
	rootCmd.AddCommand(buildCmd)
}

func printBuildReport(report *buildrun.Report) {
	fmt.Println(utils.TitleStyle.Render("Build complete"))
	fmt.Println(utils.FormatKeyValue("Files scanned", fmt.Sprintf("%d", report.NumFiles), 16))
	fmt.Println(utils.FormatKeyValue("Rounds", fmt.Sprintf("%d", len(report.Rounds)), 16))
	fmt.Println(utils.FormatKeyValue("Elapsed", utils.FormatDuration(report.Elapsed), 16))
	fmt.Println(utils.FormatKeyValue("Output size", report.ArtifactSize.String(), 16))

	for _, round := range report.Rounds {
		label := fmt.Sprintf("%s round %d", utils.GetSeverityIcon("info"), round.Number)
		fmt.Printf("  %s: %d source(s)\n", label, len(round.Sources))
		for _, src := range round.Sources {
			fmt.Printf("    - %s\n", utils.TruncateString(src, 72))
		}
	}
}
