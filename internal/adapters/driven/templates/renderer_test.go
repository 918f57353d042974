package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

func safe(raw string) domain.SafeValue {
	return domain.SafeValue{Raw: raw, Escaped: `"` + raw + `"`}
}

func agentContext() map[string]any {
	return map[string]any{
		"id":                    "genre_editor",
		"kind":                  "agent",
		"source_format_version": "v1.0",
		"metadata":              map[string]string{"name": "Aria", "description": "Edits fiction", "model": "sonnet"},
		"metadata_safe": map[string]domain.SafeValue{
			"name":        safe("Aria"),
			"description": safe("Edits fiction"),
			"model":       safe("sonnet"),
		},
		"structured_yaml": "agent:\n  id: genre_editor",
		"interface_yaml": "commands:\n  - help: \"Show numbered command list\"\n  - edit: \"Edit the chapter\"\n" +
			"dependencies:\n  tasks:\n    - \"edit-chapter.md\"",
		"commands_typed": []domain.AgentCommand{
			{Name: "help", Description: "Show numbered command list"},
			{Name: "edit", Description: "Edit the chapter"},
		},
		"dependencies": []struct {
			Category string
			Items    []string
		}{
			{Category: "tasks", Items: []string{"edit-chapter.md"}},
		},
		"embed_markers": []domain.EmbeddedKnowledgeMarker{
			{SourcePath: "genre.md", Content: "Cozy mysteries.\n", Found: true},
		},
	}
}

func TestRenderer_Has(t *testing.T) {
	r := NewRenderer("")

	for _, kind := range []domain.Kind{domain.KindAgent, domain.KindCommand, domain.KindSkill} {
		assert.True(t, r.Has(kind.TemplateName()), kind.String())
	}
	assert.False(t, r.Has("widget.md.j2"))
	assert.False(t, r.Has("../agent.md.j2"))
	assert.False(t, r.Has(""))
}

func TestRenderer_Render_Agent(t *testing.T) {
	out, err := NewRenderer("").Render("agent.md.j2", agentContext())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "---\nname: \"Aria\"\ndescription: \"Edits fiction\"\nmodel: \"sonnet\"\n---\n"))
	assert.Contains(t, out, "# genre_editor\n")
	assert.Contains(t, out, "## Activation Instructions")
	assert.Contains(t, out, "Greet the user as Aria")
	assert.Contains(t, out, "```yaml\nagent:\n  id: genre_editor\ncommands:\n"+
		"  - help: \"Show numbered command list\"\n  - edit: \"Edit the chapter\"\n"+
		"dependencies:\n  tasks:\n    - \"edit-chapter.md\"\n```\n")
	assert.Contains(t, out, "## Commands\n\n- help: Show numbered command list\n- edit: Edit the chapter\n")
	assert.True(t, strings.HasSuffix(out,
		"## Embedded Knowledge\n\n<!-- BUILD:INJECT:START:genre.md -->\nCozy mysteries.\n<!-- BUILD:INJECT:END -->\n"))
}

func TestRenderer_Render_StructuredBlockIsYAML(t *testing.T) {
	out, err := NewRenderer("").Render("agent.md.j2", agentContext())
	require.NoError(t, err)

	start := strings.Index(out, "```yaml\n") + len("```yaml\n")
	end := strings.Index(out[start:], "```")
	var block map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out[start:start+end]), &block))
	assert.Contains(t, block, "agent")
	assert.Contains(t, block, "commands")
	assert.Contains(t, block, "dependencies")
}

func TestRenderer_Render_NoCommandsOrMarkers(t *testing.T) {
	ctx := agentContext()
	ctx["commands_typed"] = []domain.AgentCommand(nil)
	ctx["embed_markers"] = []domain.EmbeddedKnowledgeMarker(nil)
	ctx["metadata"] = map[string]string{"name": "Aria"}

	out, err := NewRenderer("").Render("agent.md.j2", ctx)
	require.NoError(t, err)

	assert.NotContains(t, out, "model:")
	assert.NotContains(t, out, "Embedded Knowledge")
	assert.True(t, strings.HasSuffix(out, "## Commands\n\nNo commands declared.\n"))
}

func TestRenderer_Render_AllKinds(t *testing.T) {
	r := NewRenderer("")
	for _, name := range []string{"command.md.j2", "skill.md.j2"} {
		t.Run(name, func(t *testing.T) {
			out, err := r.Render(name, agentContext())
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "---\nname: \"Aria\"\n"))
			assert.Contains(t, out, "## Activation")
			assert.Contains(t, out, "## Commands")
			assert.Contains(t, out, "BUILD:INJECT:START:genre.md")
		})
	}
}

func TestRenderer_Render_NotFound(t *testing.T) {
	_, err := NewRenderer("").Render("widget.md.j2", agentContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestRenderer_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.md.j2"), []byte("custom {{.id}}"), 0644))

	r := NewRenderer(dir)

	out, err := r.Render("agent.md.j2", agentContext())
	require.NoError(t, err)
	assert.Equal(t, "custom genre_editor", out)

	// Templates absent from the directory fall back to the embedded ones.
	out, err = r.Render("skill.md.j2", agentContext())
	require.NoError(t, err)
	assert.Contains(t, out, "## Activation")
}

func TestRenderer_CacheAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.md.j2")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	r := NewRenderer(dir)
	out, err := r.Render("agent.md.j2", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	out, _ = r.Render("agent.md.j2", nil)
	assert.Equal(t, "v1", out, "cached until reload")

	r.Reload()
	out, _ = r.Render("agent.md.j2", nil)
	assert.Equal(t, "v2", out)
}

func TestRenderer_ParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.md.j2"), []byte("{{if}}"), 0644))

	_, err := NewRenderer(dir).Render("agent.md.j2", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse template")
	assert.NotErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestFuncs(t *testing.T) {
	indent := funcs["indent"].(func(int, string) string)
	assert.Equal(t, "  a\n  b", indent(2, "a\nb"))

	chomp := funcs["chomp"].(func(string) string)
	assert.Equal(t, "text", chomp("text\n\n"))
}
