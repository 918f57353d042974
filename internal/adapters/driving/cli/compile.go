package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

var (
	compileOutputDir string
	compileValidate  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [source]",
	Short: "Compile one agent definition",
	Long: `Compile a TOON (.toon) or frontmatter Markdown (.md) source into
<output-dir>/<id>.md.

The output directory defaults to the build.output_dir setting.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutputDir, "output", "o", "", "output directory")
	compileCmd.Flags().BoolVar(&compileValidate, "validate", false, "run roundtrip validation on the output")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if compileService == nil {
		return errNotConfigured("compile")
	}

	opts := driving.CompileOptions{Validate: compileValidate}
	result, err := compileService.Compile(cmd.Context(), args[0], compileOutputDir, opts)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	printResult(cmd, styles.For(cmd.OutOrStdout()), args[0], result)
	return nil
}

// printResult writes one compile summary line plus its warnings and score.
func printResult(cmd *cobra.Command, s *styles.Styles, source string, result *domain.CompileResult) {
	cmd.Printf("%s %s -> %s\n", s.Success.Render("compiled"), source, result.OutputPath)
	for _, w := range result.Warnings {
		cmd.Printf("  %s %s\n", s.Warning.Render("warning:"), w)
	}
	if result.Report != nil {
		cmd.Printf("  %s %.1f\n", s.Label.Render("equivalence score:"), result.Report.EquivalenceScore)
	}
}
