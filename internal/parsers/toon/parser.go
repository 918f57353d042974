package toon

import (
	"os"
	"strings"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles TOON source files.
type Parser struct{}

// New creates a new TOON parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser identifier.
func (p *Parser) Name() string {
	return "toon"
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".toon", ".txt"}
}

// Parse converts TOON text into a Document. It never fails; blank input
// yields domain.EmptyDocument.
func (p *Parser) Parse(text string) domain.Document {
	return Parse(text)
}

// Parse converts TOON text into a Document.
func Parse(text string) domain.Document {
	if strings.TrimSpace(text) == "" {
		return domain.EmptyDocument()
	}

	raw := splitLines(text)
	sections := classifySections(splitSections(preprocess(raw)))
	meta := extractMetadata(raw, sections)

	return domain.Document{
		ID:                  resolveID(meta, sections),
		Kind:                detectKind(text),
		Metadata:            meta,
		Sections:            sections,
		SourceFormatVersion: detectVersion(text),
	}
}

// ParseFile reads and parses a TOON file.
func ParseFile(path string) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc := Parse(string(content))
	doc.SourcePath = path
	return doc, nil
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
