package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
)

// errBelowMinScore is returned when a validation does not reach the minimum score.
var errBelowMinScore = errors.New("equivalence score below minimum")

var (
	validateJSON     bool
	validateMinScore float64
)

var validateCmd = &cobra.Command{
	Use:   "validate [original] [compiled]",
	Short: "Score a compiled artifact against its source",
	Long: `Compare an original source with its compiled Markdown and report the
equivalence score (0-100) over five weighted checks:

  commands             30
  dependencies         30
  frontmatter          20
  critical sections    10
  embedded knowledge   10

The command fails when the score is below --min-score, which defaults to the
validate.min_score setting.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the report as JSON")
	validateCmd.Flags().Float64Var(&validateMinScore, "min-score", -1, "minimum passing score (default from settings)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateService == nil {
		return errNotConfigured("validate")
	}

	report, err := validateService.ValidateFiles(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	minScore, err := effectiveMinScore(validateMinScore)
	if err != nil {
		return err
	}

	if validateJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printReport(cmd, styles.For(cmd.OutOrStdout()), report, minScore)
	}

	if !report.Passed(minScore) {
		return fmt.Errorf("%w: %.1f < %.1f", errBelowMinScore, report.EquivalenceScore, minScore)
	}
	return nil
}

// effectiveMinScore resolves a negative flag value to the configured minimum.
func effectiveMinScore(flag float64) (float64, error) {
	if flag >= 0 {
		return flag, nil
	}
	if settingsService == nil {
		return domain.DefaultMinScore, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return 0, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.MinScore, nil
}

func printReport(cmd *cobra.Command, s *styles.Styles, report domain.ValidationReport, minScore float64) {
	verdict := s.Success.Render("PASS")
	if !report.Passed(minScore) {
		verdict = s.Error.Render("FAIL")
	}
	cmd.Printf("%s %.1f / 100 (minimum %.1f) %s\n",
		s.Title.Render("Equivalence score:"), report.EquivalenceScore, minScore, verdict)
	cmd.Println()

	checks := []struct {
		name string
		ok   bool
	}{
		{"commands", report.Facets.CommandsMatch},
		{"dependencies", report.Facets.DependenciesMatch},
		{"frontmatter", report.Facets.FrontmatterValid},
		{"critical sections", report.Facets.CriticalSectionsPresent},
		{"embedded knowledge", report.Facets.EmbeddedKnowledgePreserved},
	}
	for _, c := range checks {
		mark := s.Success.Render("ok  ")
		if !c.ok {
			mark = s.Error.Render("fail")
		}
		cmd.Printf("  [%s] %s\n", mark, c.name)
	}

	if len(report.Differences) > 0 {
		cmd.Println()
		cmd.Println(s.Title.Render("Differences:"))
		for _, d := range report.Differences {
			cmd.Printf("  - %s\n", d)
		}
	}
	if len(report.PatternsDiscovered) > 0 {
		cmd.Println()
		cmd.Println(s.Title.Render("Patterns:"))
		for _, p := range report.PatternsDiscovered {
			cmd.Printf("  %s %s\n", s.Label.Render(p.ID), s.Muted.Render(p.Description))
		}
	}
	if len(report.EdgeCasesFound) > 0 {
		cmd.Println()
		cmd.Println(s.Title.Render("Edge cases:"))
		for _, e := range report.EdgeCasesFound {
			cmd.Printf("  %s %s\n", s.Label.Render(e.ID), s.Muted.Render(e.HandlingStrategy))
		}
	}
}
