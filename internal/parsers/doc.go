// Package parsers wires the source-notation parsers into a registry keyed by
// file extension.
//
// The toon subpackage parses the terse "TOON" notation and the frontmatter
// subpackage parses YAML-frontmatter Markdown. Both produce domain.Document.
package parsers
