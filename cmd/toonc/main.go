// Command toonc compiles TOON agent definitions into Markdown artifacts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/toonc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/toonc/internal/adapters/driven/knowledge"
	"github.com/custodia-labs/toonc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/toonc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/toonc/internal/adapters/driven/templates"
	"github.com/custodia-labs/toonc/internal/adapters/driving/cli"
	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/core/services"
	"github.com/custodia-labs/toonc/internal/logger"
	"github.com/custodia-labs/toonc/internal/parsers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the services from the configuration directory.
func bootstrap(opts cli.GlobalOptions) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		// Keep running so "settings set" can repair the file.
		fmt.Fprintf(os.Stderr, "warning: %v; using defaults\n", err)
		settings = domain.DefaultSettings()
	}
	if opts.NoHistory {
		settings.HistoryEnabled = false
	}

	builds, closeBuilds, err := openBuildStore(filepath.Dir(configStore.Path()), settings.HistoryEnabled)
	if err != nil {
		return nil, nil, err
	}

	registry := parsers.DefaultRegistry()
	validator := services.NewValidateService()
	renderer := templates.NewRenderer(settings.TemplatesDir)
	compiler := services.NewCompileService(
		registry,
		renderer,
		knowledge.NewFileLoader(),
		validator,
		builds,
		settings,
	)

	return &cli.Services{
		Compile:  compiler,
		Validate: validator,
		Build:    services.NewBuildService(compiler, registry.Extensions(), settings.Workers),
		Watch:    services.NewWatcher(compiler, registry.Extensions()).WithTemplates(settings.TemplatesDir, renderer),
		History:  services.NewHistoryService(builds),
		Settings: settingsService,
	}, closeBuilds, nil
}

// openBuildStore opens the SQLite history under configDir/data. With history
// disabled an in-memory store stands in so the history command still works.
func openBuildStore(configDir string, enabled bool) (driven.BuildStore, func(), error) {
	if !enabled {
		return memory.NewBuildStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return store.BuildStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing history: %v", err)
		}
	}, nil
}
