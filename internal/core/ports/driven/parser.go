package driven

import "github.com/custodia-labs/toonc/internal/core/domain"

// Parser transforms one source notation into a Document.
// Parsers never fail: malformed input degrades to a partial Document
// with the fallbacks recorded in Document.Issues.
type Parser interface {
	// Name returns the parser identifier (e.g. "toon").
	Name() string

	// Extensions returns the lower-case file extensions this parser handles.
	Extensions() []string

	// Parse converts source text into a Document.
	Parse(text string) domain.Document
}

// ParserRegistry selects the parser for a source file.
type ParserRegistry interface {
	// Register adds a parser for each of its extensions.
	Register(parser Parser)

	// ForPath returns the parser for a file path.
	ForPath(path string) (Parser, error)

	// Extensions returns every registered extension.
	Extensions() []string
}
