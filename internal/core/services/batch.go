package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.BuildService = (*BuildService)(nil)

// BuildService compiles many sources with a bounded worker pool.
type BuildService struct {
	compiler   driving.CompileService
	extensions []string
	workers    int
}

// NewBuildService creates a new build service. Directories passed to Expand
// yield files with one of the extensions. workers below 1 compile
// sequentially.
func NewBuildService(compiler driving.CompileService, extensions []string, workers int) *BuildService {
	if workers < 1 {
		workers = 1
	}
	return &BuildService{compiler: compiler, extensions: extensions, workers: workers}
}

// Expand replaces directories with the source files they contain.
func (s *BuildService) Expand(paths []string) ([]string, error) {
	return CollectSources(paths, s.extensions)
}

// Workers returns the pool size.
func (s *BuildService) Workers() int {
	return s.workers
}

// BuildAll compiles every source into outputDir. Outcomes keep input order.
// Sources not started before ctx is cancelled report ctx.Err().
func (s *BuildService) BuildAll(
	ctx context.Context,
	sourcePaths []string,
	outputDir string,
	opts driving.CompileOptions,
) []domain.BuildOutcome {
	outcomes := make([]domain.BuildOutcome, len(sourcePaths))
	for i, path := range sourcePaths {
		outcomes[i].SourcePath = path
	}
	if len(sourcePaths) == 0 {
		return outcomes
	}

	workers := s.workers
	if workers > len(sourcePaths) {
		workers = len(sourcePaths)
	}
	logger.Info("Building %d sources with %d workers", len(sourcePaths), workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes[i].Err = err
					continue
				}
				result, err := s.compiler.Compile(ctx, sourcePaths[i], outputDir, opts)
				outcomes[i].Result = result
				outcomes[i].Err = err
			}
		}()
	}

feed:
	for i := range sourcePaths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(sourcePaths); j++ {
				outcomes[j].Err = ctx.Err()
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	warnCollisions(outcomes)
	return outcomes
}

// FailedCount returns how many outcomes carry an error.
func FailedCount(outcomes []domain.BuildOutcome) int {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	return failed
}

// warnCollisions logs sources that were written to the same artifact.
// The last writer wins.
func warnCollisions(outcomes []domain.BuildOutcome) {
	bySource := make(map[string][]string)
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			continue
		}
		bySource[o.Result.OutputPath] = append(bySource[o.Result.OutputPath], o.SourcePath)
	}
	for output, sources := range bySource {
		if len(sources) > 1 {
			logger.Warn("%s written by %d sources: %s", output, len(sources), strings.Join(sources, ", "))
		}
	}
}

// CollectSources expands directories into the source files they contain.
// Only files with one of the extensions are picked up inside directories;
// files named directly are kept as given. Hidden entries are skipped.
func CollectSources(paths, extensions []string) ([]string, error) {
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, domain.NewStageError(domain.StageRead, root, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && isHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && wanted[strings.ToLower(filepath.Ext(path))] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}
	return out, nil
}
