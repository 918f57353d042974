package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.WatchService = (*Watcher)(nil)

// Watcher recompiles sources when they change on disk.
type Watcher struct {
	compiler   driving.CompileService
	extensions map[string]bool

	templatesDir string
	reloader     driven.TemplateReloader
}

// watchSession is one Watch call: its output directory and options.
type watchSession struct {
	*Watcher
	outputDir string
	opts      driving.CompileOptions
}

// NewWatcher creates a watcher for files with one of the extensions.
func NewWatcher(compiler driving.CompileService, extensions []string) *Watcher {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Watcher{compiler: compiler, extensions: exts}
}

// WithTemplates also watches the template override directory and reloads
// templates when a file in it changes. An empty dir disables this.
func (w *Watcher) WithTemplates(dir string, reloader driven.TemplateReloader) *Watcher {
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	w.templatesDir = dir
	w.reloader = reloader
	return w
}

func (w *Watcher) session(outputDir string, opts driving.CompileOptions) *watchSession {
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	return &watchSession{Watcher: w, outputDir: outputDir, opts: opts}
}

// Watch blocks until ctx is cancelled, compiling sources under root into
// outputDir on create and write events. Each compile is reported through
// onOutcome.
func (w *Watcher) Watch(ctx context.Context, root, outputDir string, opts driving.CompileOptions,
	onOutcome func(domain.BuildOutcome)) error {
	s := w.session(outputDir, opts)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := s.addTree(fsw, root); err != nil {
		return err
	}
	logger.Info("Watching %s", root)
	s.addTemplates(fsw)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if s.templateEvent(event) {
				s.reloader.Reload()
				logger.Info("Reloaded templates after change to %s", filepath.Base(event.Name))
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && !s.skipped(event.Name) {
				if err := s.addTree(fsw, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
				continue
			}

			path, ok := s.handleEvent(event)
			if !ok {
				continue
			}
			result, err := s.compiler.Compile(ctx, path, s.outputDir, s.opts)
			if onOutcome != nil {
				onOutcome(domain.BuildOutcome{SourcePath: path, Result: result, Err: err})
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// addTree watches dir and its non-hidden subdirectories.
func (w *watchSession) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (isHidden(path) || w.skipped(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// addTemplates watches the template directory when one is configured.
// A missing directory only logs a warning.
func (w *watchSession) addTemplates(fsw *fsnotify.Watcher) {
	if w.templatesDir == "" || w.reloader == nil {
		return
	}
	if err := fsw.Add(w.templatesDir); err != nil {
		logger.Warn("watch templates %s: %v", w.templatesDir, err)
		return
	}
	logger.Info("Watching templates in %s", w.templatesDir)
}

// templateEvent reports whether an event changed a template file.
func (w *watchSession) templateEvent(event fsnotify.Event) bool {
	if w.templatesDir == "" || w.reloader == nil {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isHidden(event.Name) || filepath.Ext(event.Name) != ".j2" {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == w.templatesDir
}

// handleEvent returns the source to recompile for an event.
// Only create and write of visible regular files with a watched extension
// outside the output directory qualify.
func (w *watchSession) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) || w.skipped(event.Name) {
		return "", false
	}
	if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// skipped reports whether path lies inside the output directory, so
// compiled artifacts never trigger another compile.
func (w *watchSession) skipped(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(w.outputDir, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// isHidden reports whether the final path element starts with a dot.
func isHidden(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && name != ".." && strings.HasPrefix(name, ".")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
