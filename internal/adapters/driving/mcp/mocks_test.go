package mcp

import (
	"context"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// mockCompileService is a mock implementation of driving.CompileService.
type mockCompileService struct {
	result *domain.CompileResult
	doc    domain.Document
	err    error

	// Recorded call arguments.
	lastPath      string
	lastText      string
	lastOutputDir string
	lastOpts      driving.CompileOptions
	calls         []string
}

func (m *mockCompileService) Compile(
	_ context.Context,
	sourcePath, outputDir string,
	opts driving.CompileOptions,
) (*domain.CompileResult, error) {
	m.calls = append(m.calls, "compile")
	m.lastPath, m.lastOutputDir, m.lastOpts = sourcePath, outputDir, opts
	return m.result, m.err
}

func (m *mockCompileService) Render(_ context.Context, sourcePath, text string) (*domain.CompileResult, error) {
	m.calls = append(m.calls, "render")
	m.lastPath, m.lastText = sourcePath, text
	return m.result, m.err
}

func (m *mockCompileService) Parse(_ context.Context, sourcePath string) (domain.Document, error) {
	m.calls = append(m.calls, "parse")
	m.lastPath = sourcePath
	return m.doc, m.err
}

func (m *mockCompileService) ParseText(_ context.Context, sourcePath, text string) (domain.Document, error) {
	m.calls = append(m.calls, "parse_text")
	m.lastPath, m.lastText = sourcePath, text
	return m.doc, m.err
}

// mockValidateService is a mock implementation of driving.ValidateService.
type mockValidateService struct {
	report domain.ValidationReport
	err    error

	lastOriginal string
	lastCompiled string
	calls        []string
}

func (m *mockValidateService) Validate(original, compiled string) domain.ValidationReport {
	m.calls = append(m.calls, "validate")
	m.lastOriginal, m.lastCompiled = original, compiled
	return m.report
}

func (m *mockValidateService) ValidateFiles(
	_ context.Context,
	originalPath, compiledPath string,
) (domain.ValidationReport, error) {
	m.calls = append(m.calls, "validate_files")
	m.lastOriginal, m.lastCompiled = originalPath, compiledPath
	return m.report, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records   []domain.BuildRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.BuildRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockHistoryService) ForSource(_ context.Context, _ string) ([]domain.BuildRecord, error) {
	return m.records, m.err
}
