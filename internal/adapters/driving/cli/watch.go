package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

var (
	watchOutputDir string
	watchValidate  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Recompile sources as they change",
	Long: `Watch a directory tree and recompile each supported source when it is
created or written. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputDir, "output", "o", "", "output directory")
	watchCmd.Flags().BoolVar(&watchValidate, "validate", false, "run roundtrip validation on each output")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errNotConfigured("watch")
	}

	outputDir, err := resolveOutputDir(watchOutputDir)
	if err != nil {
		return err
	}

	s := styles.For(cmd.OutOrStdout())
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])

	opts := driving.CompileOptions{Validate: watchValidate}
	err = watchService.Watch(cmd.Context(), args[0], outputDir, opts, func(o domain.BuildOutcome) {
		if o.Err != nil {
			cmd.Printf("%s %s: %v\n", s.Error.Render("failed"), o.SourcePath, o.Err)
			return
		}
		printResult(cmd, s, o.SourcePath, o.Result)
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// resolveOutputDir returns flag, or the configured output directory when empty.
// The watcher needs a concrete directory to keep artifacts from retriggering it.
func resolveOutputDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if settingsService == nil {
		return domain.DefaultOutputDir, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.OutputDir, nil
}
