// Package frontmatter parses YAML-frontmatter Markdown agent files into a
// domain.Document.
//
// The leading "---" block supplies the metadata. Every fenced yaml block in
// the body is parsed as a mapping whose top-level keys become sections:
//
//	---
//	name: Aria
//	description: Edits genre fiction
//	tools: [Read, Edit]
//	---
//
//	```yaml
//	agent:
//	  id: genre_editor
//	commands:
//	  - help: Show numbered command list
//	```
//
// A block that is not valid YAML is recovered key by key, and failing that
// line by line. Each recovery is recorded in Document.Issues.
package frontmatter
