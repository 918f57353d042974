package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

var (
	errNotMapping = errors.New("block is not a mapping")
	topLevelKey   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*):\s*$`)
)

type namedSection struct {
	name    string
	content domain.SectionContent
}

// parseBlock parses a fenced block strictly as a YAML mapping.
func parseBlock(text string) ([]namedSection, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	node := unwrap(&root)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	out := make([]namedSection, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, namedSection{
			name:    node.Content[i].Value,
			content: sectionFromNode(node.Content[i+1]),
		})
	}
	return out, nil
}

// recoverBlock splits a malformed block at its top-level "key:" lines and
// parses each indented sub-block on its own. A sub-block that still fails
// is read line by line.
func recoverBlock(text string) ([]namedSection, []domain.ParseIssue) {
	var out []namedSection
	var issues []domain.ParseIssue

	for _, group := range groupTopLevel(text) {
		content, err := parseSubBlock(group.lines)
		if err != nil {
			issues = append(issues, issue("subblock", group.key, err))
			content = lineItems(group.lines)
		}
		out = append(out, namedSection{name: group.key, content: content})
	}
	return out, issues
}

type keyGroup struct {
	key   string
	lines []string
}

// groupTopLevel collects the indented lines below each unindented "key:" line.
func groupTopLevel(text string) []keyGroup {
	var groups []keyGroup
	for _, line := range strings.Split(text, "\n") {
		if m := topLevelKey.FindStringSubmatch(line); m != nil {
			groups = append(groups, keyGroup{key: m[1]})
			continue
		}
		if len(groups) == 0 {
			continue
		}
		if strings.TrimSpace(line) == "" || line[0] == ' ' || line[0] == '\t' {
			last := &groups[len(groups)-1]
			last.lines = append(last.lines, line)
		}
	}
	return groups
}

func parseSubBlock(lines []string) (domain.SectionContent, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &root); err != nil {
		return nil, err
	}
	node := unwrap(&root)
	if node == nil {
		return domain.TextContent{}, nil
	}
	return sectionFromNode(node), nil
}

// lineItems is the last-resort reading: dash lines become items and
// "key: value" lines pass through verbatim.
func lineItems(lines []string) domain.SectionContent {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-"):
			items = append(items, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
		case strings.Contains(trimmed, ":"):
			items = append(items, trimmed)
		}
	}
	return domain.ListContent{Items: items}
}

func unwrap(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		case 0:
			return nil
		default:
			return node
		}
	}
	return nil
}

// sectionFromNode maps a YAML value onto the section variants. A sequence of
// single-pair mappings ("- help: Show help") reads as a map.
func sectionFromNode(node *yaml.Node) domain.SectionContent {
	node = unwrap(node)
	if node == nil {
		return domain.TextContent{}
	}

	switch node.Kind {
	case yaml.SequenceNode:
		if fields, ok := pairSequence(node); ok {
			return domain.MapContent{Fields: fields}
		}
		return domain.ListContent{Items: sequenceItems(node)}
	case yaml.MappingNode:
		fields := domain.NewFields()
		hasLists := false
		for i := 0; i+1 < len(node.Content); i += 2 {
			value := unwrap(node.Content[i+1])
			if value != nil && value.Kind == yaml.SequenceNode {
				hasLists = true
				fields.Set(node.Content[i].Value, domain.List(sequenceItems(value)...))
				continue
			}
			fields.Set(node.Content[i].Value, domain.Scalar(nodeString(value)))
		}
		if hasLists {
			return domain.MixedContent{Fields: fields}
		}
		return domain.MapContent{Fields: fields}
	default:
		return domain.TextContent{Text: strings.TrimSpace(node.Value)}
	}
}

func pairSequence(node *yaml.Node) (*domain.Fields, bool) {
	if len(node.Content) == 0 {
		return nil, false
	}
	fields := domain.NewFields()
	for _, item := range node.Content {
		item = unwrap(item)
		if item == nil || item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, false
		}
		value := unwrap(item.Content[1])
		if value == nil || value.Kind != yaml.ScalarNode {
			return nil, false
		}
		fields.Set(item.Content[0].Value, domain.Scalar(value.Value))
	}
	return fields, true
}

func sequenceItems(node *yaml.Node) []string {
	items := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, nodeString(item))
	}
	return items
}

// nodeString renders any YAML node as one string: scalars verbatim,
// sequences in flow form, single pairs as "key: value", larger mappings
// re-encoded as YAML.
func nodeString(node *yaml.Node) string {
	node = unwrap(node)
	if node == nil {
		return ""
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(node.Value)
	case yaml.SequenceNode:
		return "[" + strings.Join(sequenceItems(node), ", ") + "]"
	case yaml.MappingNode:
		if len(node.Content) == 2 {
			return fmt.Sprintf("%s: %s", node.Content[0].Value, nodeString(node.Content[1]))
		}
		out, err := yaml.Marshal(node)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	default:
		return ""
	}
}
