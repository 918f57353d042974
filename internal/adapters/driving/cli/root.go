// Package cli provides the toonc command line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by the commands. Set through SetServices or the bootstrap hook.
var (
	compileService  driving.CompileService
	validateService driving.ValidateService
	buildService    driving.BuildService
	watchService    driving.WatchService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// Services holds every driving port the commands need.
type Services struct {
	Compile  driving.CompileService
	Validate driving.ValidateService
	Build    driving.BuildService
	Watch    driving.WatchService
	History  driving.HistoryService
	Settings driving.SettingsService
}

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	// Verbose enables debug and info logging.
	Verbose bool

	// ConfigDir overrides the configuration directory (default ~/.toonc).
	ConfigDir string

	// NoHistory disables compile history for this run.
	NoHistory bool
}

// Bootstrap builds the services once flags are parsed.
// The returned func releases them after the command finishes.
type Bootstrap func(opts GlobalOptions) (*Services, func(), error)

var (
	globalOpts GlobalOptions
	bootstrap  Bootstrap
	teardown   func()
)

var rootCmd = &cobra.Command{
	Use:   "toonc",
	Short: "Compile TOON agent definitions into Markdown",
	Long: `toonc compiles agent definitions written in TOON, or in Markdown with a
YAML frontmatter header, into Markdown artifacts with a structured YAML block,
a command list, and embedded knowledge regions.

Compiled artifacts can be checked against their source with a roundtrip
validator that scores how much of the original survived.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.toonc)")
	flags.BoolVar(&globalOpts.NoHistory, "no-history", false, "do not record compile history")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	compileService = s.Compile
	validateService = s.Validate
	buildService = s.Build
	watchService = s.Watch
	historyService = s.History
	settingsService = s.Settings
}

// SetBootstrap registers the hook that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command and releases the services afterwards.
// Command output goes to stdout so JSON can be piped.
func Execute(ctx context.Context) error {
	defer release()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	if bootstrap == nil {
		return nil
	}

	services, done, err := bootstrap(globalOpts)
	if err != nil {
		return err
	}
	SetServices(services)
	teardown = done
	return nil
}

func release() {
	if teardown != nil {
		teardown()
		teardown = nil
	}
}

// errNotConfigured returns the error for a missing service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
