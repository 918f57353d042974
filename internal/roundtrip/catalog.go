package roundtrip

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// pair is the text under comparison.
type pair struct {
	original string
	compiled string
}

type patternEntry struct {
	pattern domain.Pattern
	applies func(pair) bool
}

type edgeCaseEntry struct {
	edgeCase domain.EdgeCase
	applies  func(pair) bool
}

var (
	toonHeader      = regexp.MustCompile(`(?m)^#\s+.*AGENT.*\(TOON v\d+\.\d+\)`)
	roleSlug        = regexp.MustCompile(`(?m)^[ \t]*role:[ \t]*.+\|\s*\S+\s*$`)
	sectionHeader   = regexp.MustCompile(`(?m)^##[^#]`)
	multiPartHeader = regexp.MustCompile(`(?m)^##[ \t]*[^#\s]+(?:[ \t]*[/&:-][ \t]*|[ \t]+)[^#\s]+`)
	inlineComment   = regexp.MustCompile(`(?m)^[^\n]*\S[ \t]+#(?:[ \t]|$)`)
	fencedYAMLBlock = regexp.MustCompile("(?m)^```ya?ml")
	glyphs          = []string{"→", "⟷", "≠", "✓", "✗", "⚠"}
)

func always(pair) bool { return true }

// patterns is the fixed pattern catalog. Entries keep their order in reports.
var patterns = []patternEntry{
	{
		pattern: domain.Pattern{
			ID:            "toon-header-to-frontmatter",
			Description:   "The TOON title line becomes the name field of the frontmatter block.",
			BeforeExample: "# NOVEL EDITOR AGENT (TOON v1.0)",
			AfterExample:  "---\nname: \"Novel Editor\"\n---",
			AppliesTo:     "metadata",
		},
		applies: func(p pair) bool { return toonHeader.MatchString(p.original) },
	},
	{
		pattern: domain.Pattern{
			ID:            "role-slug-to-id",
			Description:   "A role of the form \"<Name> | <slug>\" supplies the document id and output file name.",
			BeforeExample: "role: Aria | genre_editor",
			AfterExample:  "# genre_editor",
			AppliesTo:     "identity",
		},
		applies: func(p pair) bool { return roleSlug.MatchString(p.original) },
	},
	{
		pattern: domain.Pattern{
			ID:            "section-header-to-yaml-key",
			Description:   "Each \"## SECTION\" block becomes a lower-case key of the structured block.",
			BeforeExample: "## CORE PRINCIPLES\n- Keep the author's voice",
			AfterExample:  "core principles:\n  - Keep the author's voice",
			AppliesTo:     "sections",
		},
		applies: func(p pair) bool { return sectionHeader.MatchString(p.original) },
	},
	{
		pattern: domain.Pattern{
			ID:            "commands-to-listing",
			Description:   "Commands are emitted twice: in the structured block and as a Markdown listing, in source order.",
			BeforeExample: "## COMMANDS\nhelp: Show numbered command list",
			AfterExample:  "## Commands\n- help: Show numbered command list",
			AppliesTo:     "commands",
		},
		applies: func(p pair) bool { return len(extractCommands(p.original)) > 0 },
	},
	{
		pattern: domain.Pattern{
			ID:            "dependency-categories",
			Description:   "Dependencies are grouped under fixed categories; empty categories may be omitted.",
			BeforeExample: "## DEPENDENCIES\ntasks:\n- edit-chapter.md",
			AfterExample:  "dependencies:\n  tasks:\n    - edit-chapter.md",
			AppliesTo:     "dependencies",
		},
		applies: func(p pair) bool { return len(extractDependencies(p.original)) > 0 },
	},
	{
		pattern: domain.Pattern{
			ID:            "inline-comment-stripping",
			Description:   "Inline \"#\" comments are removed; section headers keep their \"##\".",
			BeforeExample: "## COMMANDS # shown on activation",
			AfterExample:  "commands:",
			AppliesTo:     "preprocessing",
		},
		applies: func(p pair) bool { return inlineComment.MatchString(p.original) },
	},
	{
		pattern: domain.Pattern{
			ID:            "embed-knowledge-region",
			Description:   "Each embed_knowledge file is copied verbatim between inject markers.",
			BeforeExample: "embed_knowledge:\n- genre-conventions.md",
			AfterExample:  "<!-- BUILD:INJECT:START:genre-conventions.md -->\n...\n<!-- BUILD:INJECT:END -->",
			AppliesTo:     "dependencies",
		},
		applies: func(p pair) bool { return len(extractDependencies(p.original)["embed_knowledge"]) > 0 },
	},
	{
		pattern: domain.Pattern{
			ID:            "activation-block",
			Description:   "Compiled agents open with activation instructions that the source never spells out.",
			BeforeExample: "(none)",
			AfterExample:  "## Activation Instructions",
			AppliesTo:     "output",
		},
		applies: always,
	},
}

// edgeCases is the fixed edge case catalog.
var edgeCases = []edgeCaseEntry{
	{
		edgeCase: domain.EdgeCase{
			ID:               "inject-markers-in-source",
			Description:      "The source already contains BUILD:INJECT regions.",
			HandlingStrategy: "Every start marker path must reappear in the compiled output.",
		},
		applies: func(p pair) bool { return strings.Contains(p.original, "BUILD:INJECT") },
	},
	{
		edgeCase: domain.EdgeCase{
			ID:               "multi-part-headers",
			Description:      "Section headers with several words or separators (\"## CORE PRINCIPLES\", \"## INPUT / OUTPUT\").",
			HandlingStrategy: "The whole header text, lower-cased and trimmed, is the section key.",
		},
		applies: func(p pair) bool { return multiPartHeader.MatchString(p.original) },
	},
	{
		edgeCase: domain.EdgeCase{
			ID:               "fenced-yaml-blocks",
			Description:      "Structured sections live in fenced yaml blocks.",
			HandlingStrategy: "Blocks are parsed strictly first, then per top-level key, then line by line.",
		},
		applies: func(p pair) bool { return fencedYAMLBlock.MatchString(p.original) },
	},
	{
		edgeCase: domain.EdgeCase{
			ID:               "nested-frontmatter-values",
			Description:      "Frontmatter values that are lists or mappings instead of plain strings.",
			HandlingStrategy: "Nested values are flattened to their string form (tools becomes spec).",
		},
		applies: func(p pair) bool { return nestedFrontmatter(p.original) || nestedFrontmatter(p.compiled) },
	},
	{
		edgeCase: domain.EdgeCase{
			ID:               "non-ascii-glyphs",
			Description:      "Domain glyphs such as → ⟷ ≠ ✓ ✗ ⚠️ in section bodies.",
			HandlingStrategy: "Glyphs are carried through verbatim and never interpreted.",
		},
		applies: func(p pair) bool {
			for _, g := range glyphs {
				if strings.Contains(p.original, g) {
					return true
				}
			}
			return false
		},
	},
}

// nestedFrontmatter reports whether a leading frontmatter block has an
// indented line or a flow collection value.
func nestedFrontmatter(text string) bool {
	raw, ok := leadingFrontmatter(text)
	if !ok {
		return false
	}
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentOf(line) > 0 || strings.HasPrefix(strings.TrimSpace(line), "-") {
			return true
		}
		if _, value, found := strings.Cut(line, ":"); found {
			value = strings.TrimSpace(value)
			if strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{") {
				return true
			}
		}
	}
	return false
}

func discoverPatterns(p pair) []domain.Pattern {
	out := make([]domain.Pattern, 0, len(patterns))
	for _, e := range patterns {
		if e.applies(p) {
			out = append(out, e.pattern)
		}
	}
	return out
}

func findEdgeCases(p pair) []domain.EdgeCase {
	out := make([]domain.EdgeCase, 0, len(edgeCases))
	for _, e := range edgeCases {
		if e.applies(p) {
			out = append(out, e.edgeCase)
		}
	}
	return out
}

// Patterns returns the full pattern catalog.
func Patterns() []domain.Pattern {
	out := make([]domain.Pattern, len(patterns))
	for i, e := range patterns {
		out[i] = e.pattern
	}
	return out
}

// EdgeCases returns the full edge case catalog.
func EdgeCases() []domain.EdgeCase {
	out := make([]domain.EdgeCase, len(edgeCases))
	for i, e := range edgeCases {
		out[i] = e.edgeCase
	}
	return out
}
