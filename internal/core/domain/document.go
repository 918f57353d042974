package domain

import "strings"

// UnknownVersion is the source format version when none can be detected.
const UnknownVersion = "unknown"

// Kind is the content category of a document. It selects the template.
type Kind int

const (
	// KindAgent is an agent persona definition. It is the default.
	KindAgent Kind = iota

	// KindCommand is a slash-command definition.
	KindCommand

	// KindSkill is a skill definition.
	KindSkill
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindSkill:
		return "skill"
	default:
		return "agent"
	}
}

// TemplateName returns the template used to render documents of this kind.
func (k Kind) TemplateName() string {
	return k.String() + ".md.j2"
}

// ParseKind converts a kind name back to a Kind. Unknown names map to KindAgent.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "command":
		return KindCommand
	case "skill":
		return KindSkill
	default:
		return KindAgent
	}
}

// Metadata holds the descriptive header fields of a document.
// All fields are optional; the parser assigns them once.
type Metadata struct {
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Role        string `json:"role,omitempty"`
	Spec        string `json:"spec,omitempty"`
	Model       string `json:"model,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fields returns the non-empty metadata fields keyed by their lower-case name.
func (m Metadata) Fields() map[string]string {
	out := make(map[string]string, 7)
	for key, value := range map[string]string{
		"name":        m.Name,
		"id":          m.ID,
		"role":        m.Role,
		"spec":        m.Spec,
		"model":       m.Model,
		"version":     m.Version,
		"description": m.Description,
	} {
		if value != "" {
			out[key] = value
		}
	}
	return out
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// ParseIssue records a recovered parse failure. Parsers never fail; they
// fall back and note what they fell back from.
type ParseIssue struct {
	// Stage is the parse step that failed (e.g. "fenced-block", "subblock").
	Stage string `json:"stage"`

	// Block names the block or key being parsed.
	Block string `json:"block,omitempty"`

	// Err is the underlying parse error message.
	Err string `json:"error"`
}

// Document is the shared output of every source parser.
// It is created by a single parse call and never mutated afterwards.
type Document struct {
	// ID is the resolved document id. Empty means unknown; it is never nil.
	ID string

	// Kind selects the template. Defaults to KindAgent.
	Kind Kind

	// Metadata is the descriptive header.
	Metadata Metadata

	// Sections holds the named body sections in source order.
	Sections *Sections

	// SourceFormatVersion is the detected notation version ("v1.0", "unknown").
	SourceFormatVersion string

	// SourcePath is the file the document was read from, if any.
	SourcePath string

	// Issues lists parse fallbacks taken while building the document.
	Issues []ParseIssue
}

// EmptyDocument returns the degenerate document produced for blank input.
func EmptyDocument() Document {
	return Document{
		Kind:                KindAgent,
		Sections:            NewSections(),
		SourceFormatVersion: UnknownVersion,
	}
}

// Section returns the named section, or nil when absent.
func (d Document) Section(name string) SectionContent {
	if d.Sections == nil {
		return nil
	}
	content, _ := d.Sections.Get(name)
	return content
}

// DocumentView is the JSON form of a Document.
type DocumentView struct {
	ID                  string                 `json:"id"`
	Kind                string                 `json:"kind"`
	Metadata            Metadata               `json:"metadata"`
	SourceFormatVersion string                 `json:"source_format_version"`
	SourcePath          string                 `json:"source_path,omitempty"`
	SectionOrder        []string               `json:"section_order"`
	Sections            map[string]SectionView `json:"sections"`
	Issues              []ParseIssue           `json:"issues,omitempty"`
}

// SectionView is the JSON form of one section.
type SectionView struct {
	Shape string `json:"shape"`
	Value any    `json:"value"`
}

// View converts the document for JSON output. Section order is kept in
// SectionOrder since JSON objects are unordered.
func (d Document) View() DocumentView {
	view := DocumentView{
		ID:                  d.ID,
		Kind:                d.Kind.String(),
		Metadata:            d.Metadata,
		SourceFormatVersion: d.SourceFormatVersion,
		SourcePath:          d.SourcePath,
		SectionOrder:        d.Sections.Names(),
		Sections:            make(map[string]SectionView, d.Sections.Len()),
		Issues:              d.Issues,
	}
	if view.SectionOrder == nil {
		view.SectionOrder = []string{}
	}

	for _, name := range view.SectionOrder {
		content := d.Section(name)
		sv := SectionView{Shape: content.Shape().String()}
		switch c := content.(type) {
		case ListContent:
			sv.Value = c.Items
		case MapContent:
			sv.Value = c.Fields.Map()
		case MixedContent:
			sv.Value = c.Fields.Map()
		case TextContent:
			sv.Value = c.Text
		}
		view.Sections[name] = sv
	}
	return view
}
