package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/logger"
)

// Ensure CompileService implements the interface.
var _ driving.CompileService = (*CompileService)(nil)

// CompileService parses sources, renders them through templates and writes
// the compiled artifacts.
type CompileService struct {
	registry  driven.ParserRegistry
	renderer  driven.TemplateRenderer
	knowledge driven.KnowledgeLoader
	validator driving.ValidateService
	builds    driven.BuildStore
	settings  domain.Settings
	now       func() time.Time
}

// NewCompileService creates a new compile service.
// The validator and build store are optional. Without a validator,
// CompileOptions.Validate is ignored; without a build store nothing is recorded.
func NewCompileService(
	registry driven.ParserRegistry,
	renderer driven.TemplateRenderer,
	knowledge driven.KnowledgeLoader,
	validator driving.ValidateService,
	builds driven.BuildStore,
	settings domain.Settings,
) *CompileService {
	return &CompileService{
		registry:  registry,
		renderer:  renderer,
		knowledge: knowledge,
		validator: validator,
		builds:    builds,
		settings:  settings,
		now:       time.Now,
	}
}

// Settings returns the settings the service was created with.
func (s *CompileService) Settings() domain.Settings {
	return s.settings
}

// Compile reads sourcePath, renders it and writes <outputDir>/<id>.md.
// An empty outputDir uses the configured output directory.
func (s *CompileService) Compile(
	ctx context.Context,
	sourcePath, outputDir string,
	opts driving.CompileOptions,
) (*domain.CompileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Section("Compile " + sourcePath)

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, domain.NewStageError(domain.StageRead, sourcePath, err)
	}

	result, err := s.Render(ctx, sourcePath, string(content))
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = s.settings.OutputDir
	}
	fileName := OutputFileName(result.Document)
	if id := displayID(result.Document); !safeFileID(id) {
		warning := fmt.Sprintf("id %q is not a safe file name; writing %s instead", id, fileName)
		logger.Warn("%s", warning)
		result.Warnings = append(result.Warnings, warning)
	}
	outputPath := filepath.Join(outputDir, fileName)
	if err := writeArtifact(outputPath, []byte(result.Rendered)); err != nil {
		return nil, domain.NewStageError(domain.StageWrite, outputPath, err)
	}
	result.OutputPath = outputPath
	logger.Info("Wrote %s", outputPath)

	if opts.Validate && s.validator != nil {
		report := s.validator.Validate(string(content), result.Rendered)
		result.Report = &report
		logger.Info("Equivalence score %.0f", report.EquivalenceScore)
	}

	s.record(ctx, sourcePath, result)
	return result, nil
}

// Render parses and renders text without writing anything.
func (s *CompileService) Render(ctx context.Context, sourcePath, text string) (*domain.CompileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.parse(sourcePath, text)
	if err != nil {
		return nil, err
	}

	commands := extractCommands(doc)
	markers, warnings := s.loadMarkers(sourcePath, doc)

	renderCtx, err := templateContext(doc, commands, markers)
	if err != nil {
		return nil, domain.NewStageError(domain.StageRender, sourcePath, err)
	}

	templateName := doc.Kind.TemplateName()
	logger.Debug("Rendering %s with %s", displayID(doc), templateName)
	rendered, err := s.renderer.Render(templateName, renderCtx)
	if err != nil {
		return nil, domain.NewStageError(domain.StageRender, sourcePath, err)
	}

	return &domain.CompileResult{
		Document: doc,
		Rendered: rendered,
		Commands: commands,
		Markers:  markers,
		Warnings: warnings,
	}, nil
}

// Parse parses a source file into a Document.
func (s *CompileService) Parse(ctx context.Context, sourcePath string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return domain.Document{}, domain.NewStageError(domain.StageRead, sourcePath, err)
	}
	return s.parse(sourcePath, string(content))
}

// ParseText parses text with the parser selected by sourcePath.
func (s *CompileService) ParseText(ctx context.Context, sourcePath, text string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	return s.parse(sourcePath, text)
}

func (s *CompileService) parse(sourcePath, text string) (domain.Document, error) {
	parser, err := s.registry.ForPath(sourcePath)
	if err != nil {
		return domain.Document{}, domain.NewStageError(domain.StageParse, sourcePath, err)
	}

	doc := parser.Parse(text)
	doc.SourcePath = sourcePath
	logger.Debug("Parsed %s with %s parser: id=%q kind=%s sections=%d",
		sourcePath, parser.Name(), doc.ID, doc.Kind, doc.Sections.Len())
	for _, issue := range doc.Issues {
		logger.Debug("Recovered %s of %s: %s", issue.Stage, issue.Block, issue.Err)
	}
	return doc, nil
}

// loadMarkers reads every declared markdown knowledge file. Missing files
// yield an empty region and a warning.
func (s *CompileService) loadMarkers(sourcePath string, doc domain.Document) ([]domain.EmbeddedKnowledgeMarker, []string) {
	paths := knowledgePaths(doc)
	if len(paths) == 0 {
		return nil, nil
	}

	root := s.settings.KnowledgeRoot
	if root == "" {
		root = filepath.Dir(sourcePath)
	}

	var markers []domain.EmbeddedKnowledgeMarker
	var warnings []string
	for _, path := range paths {
		if !isMarkdown(path) {
			warnings = append(warnings, fmt.Sprintf("skipping knowledge file %s: not a markdown file", path))
			continue
		}

		marker := domain.EmbeddedKnowledgeMarker{SourcePath: path}
		if s.knowledge == nil {
			warnings = append(warnings, fmt.Sprintf("knowledge file %s not loaded: no loader configured", path))
			markers = append(markers, marker)
			continue
		}

		content, err := s.knowledge.Load(root, path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("knowledge file %s: %v", path, err))
		} else {
			marker.Content = content
			marker.Found = true
		}
		markers = append(markers, marker)
	}

	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	return markers, warnings
}

// record saves a history row. Failures are logged, never returned.
func (s *CompileService) record(ctx context.Context, sourcePath string, result *domain.CompileResult) {
	if s.builds == nil || !s.settings.HistoryEnabled {
		return
	}

	rec := domain.BuildRecord{
		ID:         uuid.New().String(),
		SourcePath: filepath.Clean(sourcePath),
		OutputPath: result.OutputPath,
		DocumentID: result.Document.ID,
		Kind:       result.Document.Kind,
		CreatedAt:  s.now(),
	}
	if result.Report != nil {
		score := result.Report.EquivalenceScore
		rec.Score = &score
		rec.Passed = result.Report.Passed(s.settings.MinScore)
	}

	if err := s.builds.Save(ctx, rec); err != nil {
		logger.Warn("failed to record build for %s: %v", sourcePath, err)
	}
}

// writeArtifact writes data through a temp file in the target directory
// and renames it into place, so readers never see a partial file.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".toonc-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
