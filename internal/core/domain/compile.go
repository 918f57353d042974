package domain

// SafeValue carries a metadata string in raw form and escaped for the
// structured header, so templates can pick either.
type SafeValue struct {
	Raw     string
	Escaped string
}

// String returns the escaped form.
func (v SafeValue) String() string {
	return v.Escaped
}

// AgentCommand is one entry of the commands section, in source order.
type AgentCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EmbeddedKnowledgeMarker locates a BUILD:INJECT region for one knowledge file.
type EmbeddedKnowledgeMarker struct {
	// SourcePath is the declared knowledge file (a markdown file).
	SourcePath string `json:"source_path"`

	// Content is the file text copied verbatim into the region.
	Content string `json:"-"`

	// Found reports whether the knowledge file could be read.
	Found bool `json:"found"`
}

// Inject marker prefixes shared by the compiler templates and the validator.
const (
	InjectStartPrefix = "BUILD:INJECT:START:"
	InjectEnd         = "BUILD:INJECT:END"
)

// StartMarker returns the region start marker text.
func (m EmbeddedKnowledgeMarker) StartMarker() string {
	return InjectStartPrefix + m.SourcePath
}

// CompileResult describes one compiled document.
type CompileResult struct {
	// Document is the parsed source.
	Document Document

	// OutputPath is the written file.
	OutputPath string

	// Rendered is the full output text.
	Rendered string

	// Commands are the commands passed to the template.
	Commands []AgentCommand

	// Markers are the embedded knowledge regions passed to the template.
	Markers []EmbeddedKnowledgeMarker

	// Report is set when roundtrip validation ran after compiling.
	Report *ValidationReport

	// Warnings are non-fatal problems (missing knowledge files, skipped markers).
	Warnings []string
}
