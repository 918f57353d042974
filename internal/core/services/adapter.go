package services

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/roundtrip"
)

// UnknownAgentID names output files and headers of documents without an id.
const UnknownAgentID = "unknown-agent"

// Section names the compiler consumes itself instead of passing through
// the structured block.
var reservedSections = map[string]bool{
	"id":           true,
	"agent":        true,
	"commands":     true,
	"dependencies": true,
}

// metadataOrder is the key order of the agent mapping.
var metadataOrder = []string{"name", "id", "role", "spec", "model", "version", "description"}

// dependencyGroup is one category of the dependencies listing.
type dependencyGroup struct {
	Category string
	Items    []string
}

// OutputFileName returns the artifact file name for a document. IDs that
// could name a path outside the output directory use UnknownAgentID.
func OutputFileName(doc domain.Document) string {
	id := displayID(doc)
	if !safeFileID(id) {
		id = UnknownAgentID
	}
	return id + ".md"
}

// safeFileID reports whether id can be used as a file name as is.
func safeFileID(id string) bool {
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func displayID(doc domain.Document) string {
	if doc.ID == "" {
		return UnknownAgentID
	}
	return doc.ID
}

// escapeMetadata wraps every metadata field for the structured header.
// Absent fields are present with empty values so templates can index them.
func escapeMetadata(doc domain.Document) map[string]domain.SafeValue {
	fields := doc.Metadata.Fields()
	if fields["name"] == "" {
		fields["name"] = displayID(doc)
	}

	out := make(map[string]domain.SafeValue, len(metadataOrder))
	for _, key := range metadataOrder {
		raw := fields[key]
		out[key] = domain.SafeValue{Raw: raw, Escaped: strconv.Quote(raw)}
	}
	return out
}

// extractCommands converts the commands section into commands in source order.
func extractCommands(doc domain.Document) []domain.AgentCommand {
	section := doc.Section("commands")
	if section == nil {
		return nil
	}

	var commands []domain.AgentCommand
	switch c := section.(type) {
	case domain.ListContent:
		for _, item := range c.Items {
			commands = append(commands, commandFromItem(item))
		}
	case domain.MapContent, domain.MixedContent:
		fields := domain.FieldsOf(c)
		for _, key := range fields.Keys() {
			value, _ := fields.Get(key)
			commands = append(commands, domain.AgentCommand{Name: key, Description: value.String()})
		}
	}
	return commands
}

// commandFromItem splits "name: description". Items without a colon name
// themselves.
func commandFromItem(item string) domain.AgentCommand {
	name, desc, ok := strings.Cut(item, ":")
	name = strings.TrimSpace(name)
	desc = strings.TrimSpace(desc)
	if !ok || name == "" || strings.ContainsAny(name, " \t") {
		return domain.AgentCommand{Name: item, Description: item}
	}
	return domain.AgentCommand{Name: name, Description: desc}
}

// dependencyFields returns the fields of the dependencies section.
func dependencyFields(doc domain.Document) *domain.Fields {
	return domain.FieldsOf(doc.Section("dependencies"))
}

// extractDependencies returns the non-empty dependency categories, fixed
// categories first, then any others in source order.
func extractDependencies(doc domain.Document) []dependencyGroup {
	fields := dependencyFields(doc)
	if fields.Len() == 0 {
		return nil
	}

	seen := make(map[string]bool, fields.Len())
	var groups []dependencyGroup
	add := func(category string) {
		if seen[category] {
			return
		}
		seen[category] = true
		value, ok := fields.Get(category)
		if !ok {
			return
		}
		if items := dependencyItems(value); len(items) > 0 {
			groups = append(groups, dependencyGroup{Category: category, Items: items})
		}
	}

	for _, category := range roundtrip.DependencyCategories {
		add(category)
	}
	for _, category := range fields.Keys() {
		add(category)
	}
	return groups
}

// knowledgePaths returns the declared embed_knowledge files.
func knowledgePaths(doc domain.Document) []string {
	value, ok := dependencyFields(doc).Get("embed_knowledge")
	if !ok {
		return nil
	}
	return dependencyItems(value)
}

// dependencyItems splits inline values the way the roundtrip validator
// reads them back, so "tasks: a.md, b.md" lists two items.
func dependencyItems(value domain.Value) []string {
	if value.IsList() {
		return value.Items()
	}
	return roundtrip.SplitInline(value.String())
}

// isMarkdown reports whether a knowledge path can be embedded.
func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// sectionsView exposes sections as plain values for templates.
func sectionsView(doc domain.Document) map[string]any {
	out := make(map[string]any, doc.Sections.Len())
	for _, name := range doc.Sections.Names() {
		out[name] = contentValue(doc.Section(name))
	}
	return out
}

func contentValue(content domain.SectionContent) any {
	switch c := content.(type) {
	case domain.ListContent:
		return c.Items
	case domain.MapContent:
		return c.Fields.Map()
	case domain.MixedContent:
		return c.Fields.Map()
	case domain.TextContent:
		return c.Text
	default:
		return nil
	}
}

// structuredYAML renders the agent mapping and the pass-through sections
// as a YAML document without a trailing newline.
func structuredYAML(doc domain.Document) (string, error) {
	agent := mappingNode()
	fields := doc.Metadata.Fields()
	if fields["id"] == "" {
		fields["id"] = displayID(doc)
	}
	for _, key := range metadataOrder {
		if value, ok := fields[key]; ok {
			appendPair(agent, key, scalarNode(value))
		}
	}
	if section := doc.Section("agent"); section != nil {
		mergeContent(agent, section)
	}

	root := mappingNode()
	appendPair(root, "agent", agent)
	for _, name := range doc.Sections.Names() {
		if reservedSections[name] {
			continue
		}
		appendPair(root, name, contentNode(doc.Section(name)))
	}
	return encodeYAML(root)
}

// interfaceYAML renders the commands and dependencies listings as YAML
// without a trailing newline. Command names are keys, so ones that YAML
// would misread are quoted by the encoder.
func interfaceYAML(commands []domain.AgentCommand, groups []dependencyGroup) (string, error) {
	commandList := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range commands {
		entry := mappingNode()
		appendPair(entry, c.Name, quotedNode(c.Description))
		commandList.Content = append(commandList.Content, entry)
	}
	if len(commands) == 0 {
		commandList.Style = yaml.FlowStyle
	}

	deps := mappingNode()
	for _, g := range groups {
		items := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range g.Items {
			items.Content = append(items.Content, quotedNode(item))
		}
		appendPair(deps, g.Category, items)
	}
	if len(groups) == 0 {
		deps.Style = yaml.FlowStyle
	}

	root := mappingNode()
	appendPair(root, "commands", commandList)
	appendPair(root, "dependencies", deps)
	return encodeYAML(root)
}

func encodeYAML(root *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// mergeContent adds section fields to a mapping, skipping keys it already has.
func mergeContent(mapping *yaml.Node, content domain.SectionContent) {
	fields := domain.FieldsOf(content)
	if fields == nil {
		appendPair(mapping, "notes", contentNode(content))
		return
	}

	existing := make(map[string]bool, len(mapping.Content)/2)
	for i := 0; i < len(mapping.Content); i += 2 {
		existing[mapping.Content[i].Value] = true
	}
	for _, key := range fields.Keys() {
		if existing[key] {
			continue
		}
		value, _ := fields.Get(key)
		appendPair(mapping, key, valueNode(value))
	}
}

func contentNode(content domain.SectionContent) *yaml.Node {
	switch c := content.(type) {
	case domain.ListContent:
		return sequenceNode(c.Items)
	case domain.MapContent, domain.MixedContent:
		node := mappingNode()
		fields := domain.FieldsOf(c)
		for _, key := range fields.Keys() {
			value, _ := fields.Get(key)
			appendPair(node, key, valueNode(value))
		}
		return node
	case domain.TextContent:
		node := scalarNode(c.Text)
		if strings.Contains(c.Text, "\n") {
			node.Style = yaml.LiteralStyle
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func valueNode(value domain.Value) *yaml.Node {
	if value.IsList() {
		return sequenceNode(value.Items())
	}
	return scalarNode(value.String())
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func sequenceNode(items []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		node.Content = append(node.Content, scalarNode(item))
	}
	return node
}

// scalarNode tags values as strings so "1.0" stays "1.0".
func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func quotedNode(value string) *yaml.Node {
	node := scalarNode(value)
	node.Style = yaml.DoubleQuotedStyle
	return node
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

// templateContext assembles the render context for a document.
func templateContext(doc domain.Document, commands []domain.AgentCommand,
	markers []domain.EmbeddedKnowledgeMarker) (map[string]any, error) {
	structured, err := structuredYAML(doc)
	if err != nil {
		return nil, err
	}
	dependencies := extractDependencies(doc)
	listings, err := interfaceYAML(commands, dependencies)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                    displayID(doc),
		"kind":                  doc.Kind.String(),
		"source_format_version": doc.SourceFormatVersion,
		"metadata":              doc.Metadata.Fields(),
		"metadata_safe":         escapeMetadata(doc),
		"sections":              sectionsView(doc),
		"structured_yaml":       structured,
		"interface_yaml":        listings,
		"commands_typed":        commands,
		"dependencies":          dependencies,
		"embed_markers":         markers,
	}, nil
}
