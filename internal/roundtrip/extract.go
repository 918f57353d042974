package roundtrip

import (
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// DependencyCategories are the dependency lists compared by the validator.
var DependencyCategories = []string{"tasks", "templates", "checklists", "data", "embed_knowledge"}

var (
	headingLine  = regexp.MustCompile(`^(#{1,6})\s*(.*?)\s*$`)
	keyLine      = regexp.MustCompile(`^(\s*)([A-Za-z_][\w-]*):\s*(.*?)\s*$`)
	dashLine     = regexp.MustCompile(`^\s*-\s*(.*?)\s*$`)
	commandDash  = regexp.MustCompile(`^\s*-\s*['"]?\*?([\w.-]+)['"]?\s*(?::|$)`)
	commandPlain = regexp.MustCompile(`^\*?([\w.-]+)\s*:`)
	injectStart  = regexp.MustCompile(regexp.QuoteMeta(domain.InjectStartPrefix) + `\s*([^\s>]+)`)
	h1Line       = regexp.MustCompile(`(?m)^#\s+\S`)
	nameLine     = regexp.MustCompile(`(?m)^\s*name\s*:`)
	roleSlugLine = regexp.MustCompile(`(?m)^[ \t]*role[ \t]*:.*\|[ \t]*(\S+)[ \t]*$`)
	idLine       = regexp.MustCompile(`(?m)^[ \t]*id[ \t]*:[ \t]*["']?([^\s"']+)["']?[ \t]*$`)
)

// bodyMode tells how a body was introduced and so how its lines read.
type bodyMode int

const (
	// keyBody follows a "key:" line; it ends at the first line indented no
	// deeper than the key that is not a dash item.
	keyBody bodyMode = iota

	// headingBody follows a "## Key" heading; it ends at the next heading
	// of the same or a higher level.
	headingBody
)

type body struct {
	mode  bodyMode
	lines []string
}

// bodies returns every block of text introduced by a "name:" key or a
// heading titled name. Comparison is case-insensitive. Fences end a body.
func bodies(text, name string) []body {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []body

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := headingLine.FindStringSubmatch(line); m != nil && len(m[1]) >= 2 && headingTitle(m[2]) == name {
			level := len(m[1])
			b := body{mode: headingBody}
			for i+1 < len(lines) {
				next := lines[i+1]
				if isFence(next) {
					break
				}
				if h := headingLine.FindStringSubmatch(next); h != nil && len(h[1]) >= 2 && len(h[1]) <= level {
					break
				}
				b.lines = append(b.lines, next)
				i++
			}
			out = append(out, b)
			continue
		}

		if m := keyLine.FindStringSubmatch(line); m != nil && strings.EqualFold(m[2], name) && m[3] == "" {
			indent := len(m[1])
			b := body{mode: keyBody}
			for i+1 < len(lines) {
				next := lines[i+1]
				if isFence(next) {
					break
				}
				trimmed := strings.TrimSpace(next)
				if trimmed != "" && indentOf(next) <= indent && !strings.HasPrefix(trimmed, "-") {
					break
				}
				b.lines = append(b.lines, next)
				i++
			}
			out = append(out, b)
		}
	}
	return out
}

// headingTitle lower-cases a heading and drops a trailing "# comment".
func headingTitle(title string) string {
	if idx := strings.Index(title, "#"); idx >= 0 {
		title = title[:idx]
	}
	return strings.ToLower(strings.TrimSpace(title))
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isCategory(name string) bool {
	for _, c := range DependencyCategories {
		if c == name {
			return true
		}
	}
	return false
}

// extractCommands returns the command names declared in text.
// Dash items under a commands key or heading count; under a heading,
// plain "name: description" lines count too.
func extractCommands(text string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, b := range bodies(text, "commands") {
		for _, line := range b.lines {
			trimmed := strings.TrimSpace(line)
			if idx := strings.Index(trimmed, " #"); idx >= 0 {
				trimmed = strings.TrimSpace(trimmed[:idx])
			}
			m := commandDash.FindStringSubmatch(trimmed)
			if m == nil && b.mode == headingBody {
				m = commandPlain.FindStringSubmatch(trimmed)
			}
			if m == nil || isCategory(m[1]) {
				continue
			}
			names[m[1]] = struct{}{}
		}
	}
	return names
}

// extractDependencies returns the items of each dependency category.
// Items are dash entries below a category key or comma-separated inline values.
func extractDependencies(text string) map[string]map[string]struct{} {
	deps := make(map[string]map[string]struct{})
	add := func(category, item string) {
		item = unquote(item)
		if item == "" {
			return
		}
		if deps[category] == nil {
			deps[category] = make(map[string]struct{})
		}
		deps[category][item] = struct{}{}
	}

	for _, b := range bodies(text, "dependencies") {
		current := ""
		for _, line := range b.lines {
			if idx := strings.Index(line, " #"); idx >= 0 {
				line = line[:idx]
			}
			if m := keyLine.FindStringSubmatch(line); m != nil {
				current = ""
				if !isCategory(m[2]) {
					continue
				}
				current = m[2]
				for _, item := range SplitInline(m[3]) {
					add(current, item)
				}
				continue
			}
			if m := dashLine.FindStringSubmatch(line); m != nil && current != "" {
				add(current, m[1])
			}
		}
	}
	return deps
}

// SplitInline splits an inline dependency value such as "a.md, b.md" or
// "[a.md, b.md]" into its items. Quotes around items are dropped.
func SplitInline(value string) []string {
	var items []string
	for _, item := range strings.Split(strings.Trim(strings.TrimSpace(value), "[]"), ",") {
		if item = unquote(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func unquote(item string) string {
	return strings.Trim(strings.TrimSpace(item), `"'`)
}

// dependencyRatio is the share of original dependency items present in the
// compiled text. It is 1 when the original declares none.
func dependencyRatio(original, compiled map[string]map[string]struct{}) (float64, []string) {
	total, kept := 0, 0
	var missing []string
	for _, category := range DependencyCategories {
		for item := range original[category] {
			total++
			if _, ok := compiled[category][item]; ok {
				kept++
				continue
			}
			missing = append(missing, category+"/"+item)
		}
	}
	sort.Strings(missing)
	if total == 0 {
		return 1, nil
	}
	return float64(kept) / float64(total), missing
}

// leadingFrontmatter returns the text of a leading "---" block.
func leadingFrontmatter(text string) (string, bool) {
	text = strings.TrimLeft(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if !strings.HasPrefix(text, "---\n") {
		return "", false
	}
	rest := text[len("---\n"):]
	if strings.HasPrefix(rest, "---") {
		return "", true
	}
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", false
	}
	return rest[:idx], true
}

// frontmatterValid reports whether text starts with a parseable "---" block
// that has a name key. The second value explains a failure.
func frontmatterValid(text string) (bool, string) {
	raw, ok := leadingFrontmatter(text)
	if !ok {
		return false, "compiled output has no frontmatter block"
	}
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return false, "compiled frontmatter is not valid YAML: " + err.Error()
	}
	if _, ok := fields["name"]; !ok {
		return false, "compiled frontmatter has no name"
	}
	return true, ""
}

// criticalSections lists the critical markers missing from compiled.
// A level-1 heading only counts as identity when it names the id the
// original declares, or when the original declares none.
func criticalSections(original, compiled string) []string {
	var missing []string
	if !nameLine.MatchString(compiled) && !identityHeading(compiled, declaredID(original)) {
		missing = append(missing, "identity (name: or a level-1 heading matching the agent id)")
	}
	lower := strings.ToLower(compiled)
	if !strings.Contains(lower, "commands") {
		missing = append(missing, "commands reference")
	}
	if !strings.Contains(lower, "activation") {
		missing = append(missing, "activation instructions")
	}
	return missing
}

// declaredID finds the agent id an original text declares. A frontmatter
// name wins over a role slug, which wins over an id key.
func declaredID(text string) string {
	if raw, ok := leadingFrontmatter(text); ok {
		var fields map[string]any
		if yaml.Unmarshal([]byte(raw), &fields) == nil {
			if name, ok := fields["name"].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
	}
	if m := roleSlugLine.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := idLine.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// identityHeading reports whether text has a level-1 heading naming id,
// with an optional leading slash for commands.
func identityHeading(text, id string) bool {
	if id == "" {
		return h1Line.MatchString(text)
	}
	heading := regexp.MustCompile(`(?m)^#[ \t]+/?` + regexp.QuoteMeta(id) + `[ \t]*$`)
	return heading.MatchString(text)
}

// injectPaths returns the knowledge paths of every inject start marker in text.
func injectPaths(text string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, m := range injectStart.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			paths = append(paths, m[1])
		}
	}
	return paths
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
