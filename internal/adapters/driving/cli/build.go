package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/core/services"
)

var (
	buildOutputDir string
	buildValidate  bool
)

var buildCmd = &cobra.Command{
	Use:   "build [paths...]",
	Short: "Compile many agent definitions",
	Long: `Compile every source named on the command line. Directories are searched
recursively for supported sources; hidden files and directories are skipped.

Sources are compiled concurrently, bounded by the build.workers setting.
A failing source does not stop the others; the command fails if any did.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutputDir, "output", "o", "", "output directory")
	buildCmd.Flags().BoolVar(&buildValidate, "validate", false, "run roundtrip validation on each output")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildService == nil {
		return errNotConfigured("build")
	}

	sources, err := buildService.Expand(args)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No sources found.")
		return nil
	}

	opts := driving.CompileOptions{Validate: buildValidate}
	outcomes := buildService.BuildAll(cmd.Context(), sources, buildOutputDir, opts)

	s := styles.For(cmd.OutOrStdout())
	for _, o := range outcomes {
		if o.Err != nil {
			cmd.Printf("%s %s: %v\n", s.Error.Render("failed"), o.SourcePath, o.Err)
			continue
		}
		printResult(cmd, s, o.SourcePath, o.Result)
	}

	failed := services.FailedCount(outcomes)
	cmd.Println()
	cmd.Printf("%d compiled, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(outcomes))
	}
	return nil
}
