package toon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

const novelEditor = `# NOVEL EDITOR AGENT (TOON v1.0)
# Edits genre fiction chapter by chapter
## ID
role: Aria | genre_editor
spec: fiction-editing
model: sonnet

## COMMANDS # shown on activation
- help: Show numbered command list
- edit: Edit the current chapter → save draft
- review: Check continuity ✓ or ✗

## DEPENDENCIES
tasks:
- edit-chapter.md
- review-chapter.md
embed_knowledge:
- genre-conventions.md

## PRINCIPLES
Keep the author's voice ⟷ never rewrite plot
`

func TestNew(t *testing.T) {
	p := New()
	require.NotNil(t, p)
	assert.Equal(t, "toon", p.Name())
	assert.Equal(t, []string{".toon", ".txt"}, p.Extensions())
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		doc := Parse(input)
		assert.Equal(t, "", doc.ID)
		assert.Equal(t, domain.KindAgent, doc.Kind)
		assert.True(t, doc.Metadata.IsZero())
		assert.Equal(t, 0, doc.Sections.Len())
		assert.Equal(t, "unknown", doc.SourceFormatVersion)
	}
}

func TestParse_FullDocument(t *testing.T) {
	doc := New().Parse(novelEditor)

	assert.Equal(t, "genre_editor", doc.ID)
	assert.Equal(t, domain.KindAgent, doc.Kind)
	assert.Equal(t, "v1.0", doc.SourceFormatVersion)
	assert.Equal(t, "Novel Editor", doc.Metadata.Name)
	assert.Equal(t, "1.0", doc.Metadata.Version)
	assert.Equal(t, "Edits genre fiction chapter by chapter", doc.Metadata.Description)
	assert.Equal(t, "Aria | genre_editor", doc.Metadata.Role)
	assert.Equal(t, "fiction-editing", doc.Metadata.Spec)
	assert.Equal(t, "sonnet", doc.Metadata.Model)
	assert.Equal(t, "genre_editor", doc.Metadata.ID)
	assert.Equal(t, []string{"id", "commands", "dependencies", "principles"}, doc.Sections.Names())

	commands, ok := doc.Section("commands").(domain.ListContent)
	require.True(t, ok, "commands should be a list")
	assert.Equal(t, []string{
		"help: Show numbered command list",
		"edit: Edit the current chapter → save draft",
		"review: Check continuity ✓ or ✗",
	}, commands.Items)

	deps, ok := doc.Section("dependencies").(domain.MixedContent)
	require.True(t, ok, "dependencies should be mixed")
	tasks, _ := deps.Fields.Get("tasks")
	assert.Equal(t, []string{"edit-chapter.md", "review-chapter.md"}, tasks.Items())
	embed, _ := deps.Fields.Get("embed_knowledge")
	assert.Equal(t, []string{"genre-conventions.md"}, embed.Items())

	principles, ok := doc.Section("principles").(domain.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Keep the author's voice ⟷ never rewrite plot", principles.Text)
}

func TestParse_RoleDerivesIDAndName(t *testing.T) {
	doc := Parse("## ID\nrole: Aria | genre_editor\n")
	assert.Equal(t, "genre_editor", doc.ID)
	assert.Equal(t, "Aria", doc.Metadata.Name)
}

func TestParse_HeaderNameWinsOverRoleName(t *testing.T) {
	doc := Parse("# NOVEL EDITOR AGENT (TOON v1.0)\n## ID\nrole: Aria | genre_editor\n")
	assert.Equal(t, "genre_editor", doc.ID)
	assert.Equal(t, "Novel Editor", doc.Metadata.Name)
}

func TestParse_IDResolution(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "id key in ID section",
			input:    "## ID\nid: explicit-id\nmodel: opus\n",
			expected: "explicit-id",
		},
		{
			name:     "slug of header name",
			input:    "# STORY PLANNER AGENT (TOON v2.1)\n## NOTES\nplain text\n",
			expected: "story-planner",
		},
		{
			name:     "role without pipe falls back to name slug",
			input:    "# STORY PLANNER AGENT (TOON v2.1)\n## ID\nrole: Planner\n",
			expected: "story-planner",
		},
		{
			name:     "nothing to resolve",
			input:    "## NOTES\njust text\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.input).ID)
		})
	}
}

func TestParse_KindDetection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected domain.Kind
	}{
		{"agent header", "# WRITER AGENT (TOON v1.0)\n## COMMANDS\n- help\n", domain.KindAgent},
		{"command", "# PUBLISH COMMAND (TOON v1.0)\n## STEPS\n- run\n", domain.KindCommand},
		{"skill", "# OUTLINE SKILL (TOON v1.0)\n## STEPS\n- draft\n", domain.KindSkill},
		{"case insensitive", "## NOTES\nthis skill helps\n", domain.KindSkill},
		{"default", "## NOTES\nnothing here\n", domain.KindAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.input).Kind)
		})
	}
}

func TestParse_VersionDetection(t *testing.T) {
	assert.Equal(t, "v3.2", Parse("## NOTES\nformat (TOON v3.2)\n").SourceFormatVersion)
	assert.Equal(t, "unknown", Parse("## NOTES\nno version\n").SourceFormatVersion)
}

func TestParse_CommentStripping(t *testing.T) {
	doc := Parse("# just a note\n## COMMANDS # inline note\n- help: Show help # trailing\n# another note\n- exit\n")

	assert.Equal(t, []string{"commands"}, doc.Sections.Names())
	list, ok := doc.Section("commands").(domain.ListContent)
	require.True(t, ok)
	assert.Equal(t, []string{"help: Show help", "exit"}, list.Items)
	for _, item := range list.Items {
		assert.NotContains(t, item, "note")
	}
}

func TestParse_DescriptionOnlyAboveSections(t *testing.T) {
	doc := Parse("# EDITOR AGENT (TOON v1.0)\n## NOTES\ntext\n# not a description\n")
	assert.Empty(t, doc.Metadata.Description)
}

func TestParse_RepeatedHeaderContinuesSection(t *testing.T) {
	doc := Parse("## RULES\n- one\n## OTHER\ntext\n## RULES\n- two\n")
	assert.Equal(t, []string{"rules", "other"}, doc.Sections.Names())
	list := doc.Section("rules").(domain.ListContent)
	assert.Equal(t, []string{"one", "two"}, list.Items)
}

func TestParse_SubHeadingsStayInSection(t *testing.T) {
	doc := Parse("## GUIDE\n### Part one\nstep text\n")
	assert.Equal(t, []string{"guide"}, doc.Sections.Names())
	text := doc.Section("guide").(domain.TextContent)
	assert.Equal(t, "### Part one\nstep text", text.Text)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.toon")
	require.NoError(t, os.WriteFile(path, []byte(novelEditor), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.SourcePath)
	assert.Equal(t, "genre_editor", doc.ID)

	_, err = ParseFile(filepath.Join(dir, "missing.toon"))
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "novel-editor", Slug("Novel Editor"))
	assert.Equal(t, "a-b", Slug("  A   B "))
	assert.Equal(t, "", Slug(""))
}
