package driving

import (
	"context"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// CompileOptions adjusts a single compile.
type CompileOptions struct {
	// Validate runs roundtrip validation on the rendered output.
	Validate bool
}

// CompileService turns source files into compiled Markdown artifacts.
type CompileService interface {
	// Compile reads sourcePath, renders it, and writes <outputDir>/<id>.md.
	Compile(ctx context.Context, sourcePath, outputDir string, opts CompileOptions) (*domain.CompileResult, error)

	// Render parses and renders text without writing anything.
	// The path only selects the parser and the knowledge root.
	Render(ctx context.Context, sourcePath, text string) (*domain.CompileResult, error)

	// Parse parses a source file into a Document.
	Parse(ctx context.Context, sourcePath string) (domain.Document, error)

	// ParseText parses text with the parser selected by sourcePath.
	ParseText(ctx context.Context, sourcePath, text string) (domain.Document, error)
}

// BuildService compiles many sources.
type BuildService interface {
	// Expand replaces directories with the source files they contain.
	Expand(paths []string) ([]string, error)

	// BuildAll compiles every source into outputDir. Outcomes keep input order.
	BuildAll(ctx context.Context, sourcePaths []string, outputDir string, opts CompileOptions) []domain.BuildOutcome
}

// WatchService recompiles sources as they change.
type WatchService interface {
	// Watch blocks until ctx is cancelled, compiling changed sources under
	// root into outputDir and reporting each outcome.
	Watch(ctx context.Context, root, outputDir string, opts CompileOptions, onOutcome func(domain.BuildOutcome)) error
}
