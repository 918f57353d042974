package frontmatter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
)

// FormatVersion is the source format version reported for frontmatter documents.
const FormatVersion = "v3.0"

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

var fencedYAML = regexp.MustCompile("(?ms)^```ya?ml[ \\t]*\\n(.*?)^```")

// Parser handles frontmatter Markdown source files.
type Parser struct{}

// New creates a new frontmatter parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser identifier.
func (p *Parser) Name() string {
	return "frontmatter"
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse converts frontmatter Markdown into a Document.
func (p *Parser) Parse(text string) domain.Document {
	return Parse(text)
}

// Parse converts frontmatter Markdown into a Document. It never fails;
// blank input yields domain.EmptyDocument.
func Parse(text string) domain.Document {
	if strings.TrimSpace(text) == "" {
		return domain.EmptyDocument()
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	doc := domain.EmptyDocument()
	doc.SourceFormatVersion = FormatVersion

	if raw, _, ok := splitFrontmatter(text); ok {
		meta, err := parseMetadata(raw)
		if err != nil {
			doc.Issues = append(doc.Issues, issue("frontmatter", "", err))
		}
		doc.Metadata = meta
	}

	for i, m := range fencedYAML.FindAllStringSubmatch(text, -1) {
		block := fmt.Sprintf("block %d", i+1)
		sections, err := parseBlock(m[1])
		if err != nil {
			doc.Issues = append(doc.Issues, issue("fenced-block", block, err))
			var issues []domain.ParseIssue
			sections, issues = recoverBlock(m[1])
			doc.Issues = append(doc.Issues, issues...)
		}
		for _, s := range sections {
			doc.Sections.Set(s.name, s.content)
		}
	}

	doc.ID = resolveID(doc.Metadata, doc.Sections)
	return doc
}

// ParseFile reads and parses a frontmatter Markdown file.
func ParseFile(path string) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc := Parse(string(content))
	doc.SourcePath = path
	return doc, nil
}

// splitFrontmatter returns the leading "---" block and the remaining body.
func splitFrontmatter(text string) (string, string, bool) {
	trimmed := strings.TrimLeft(text, "\n")
	if !strings.HasPrefix(trimmed, "---\n") {
		return "", text, false
	}
	rest := trimmed[len("---\n"):]
	if strings.HasPrefix(rest, "---") {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, "---"), "\n"), true
	}
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", text, false
	}
	body := rest[idx+len("\n---"):]
	if body != "" && !strings.HasPrefix(body, "\n") {
		return "", text, false
	}
	return rest[:idx], strings.TrimPrefix(body, "\n"), true
}

type frontmatterFields struct {
	Name        yaml.Node `yaml:"name"`
	Description yaml.Node `yaml:"description"`
	Model       yaml.Node `yaml:"model"`
	Version     yaml.Node `yaml:"version"`
	Tools       yaml.Node `yaml:"tools"`
}

func parseMetadata(raw string) (domain.Metadata, error) {
	var fm frontmatterFields
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return domain.Metadata{}, err
	}
	return domain.Metadata{
		Name:        nodeString(&fm.Name),
		Description: nodeString(&fm.Description),
		Model:       nodeString(&fm.Model),
		Version:     nodeString(&fm.Version),
		Spec:        nodeString(&fm.Tools),
	}, nil
}

func resolveID(meta domain.Metadata, sections *domain.Sections) string {
	if meta.Name != "" {
		return meta.Name
	}
	if content, ok := sections.Get("agent"); ok {
		if v, found := domain.FieldsOf(content).Get("id"); found {
			return v.String()
		}
	}
	return ""
}

func issue(stage, block string, err error) domain.ParseIssue {
	return domain.ParseIssue{Stage: stage, Block: block, Err: err.Error()}
}
