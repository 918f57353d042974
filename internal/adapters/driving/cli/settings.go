package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage compiler settings",
	Long: `View and change compiler settings. Settings are stored in config.toml
in the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change one setting. Supported keys:

  build.output_dir      directory for compiled artifacts
  build.templates_dir   directory of template overrides (empty = embedded)
  build.knowledge_root  root for embed_knowledge paths (empty = source dir)
  build.workers         concurrent compiles for build
  validate.min_score    passing equivalence score, 0-100
  history.enabled       record each compile (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	s := styles.For(cmd.OutOrStdout())
	cmd.Println(s.Title.Render("Current Settings"))
	cmd.Println()
	for _, key := range settingsService.Keys() {
		cmd.Printf("  %-22s %s\n", s.Label.Render(key), settingValue(settings, key))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

// settingValue formats one setting for display.
func settingValue(s domain.Settings, key string) string {
	switch key {
	case services.KeyOutputDir:
		return s.OutputDir
	case services.KeyTemplatesDir:
		return orDefault(s.TemplatesDir, "(embedded)")
	case services.KeyKnowledgeRoot:
		return orDefault(s.KnowledgeRoot, "(source directory)")
	case services.KeyWorkers:
		return strconv.Itoa(s.Workers)
	case services.KeyMinScore:
		return strconv.FormatFloat(s.MinScore, 'f', -1, 64)
	case services.KeyHistoryEnabled:
		return strconv.FormatBool(s.HistoryEnabled)
	default:
		return ""
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
