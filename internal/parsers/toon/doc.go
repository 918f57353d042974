// Package toon parses the terse TOON agent notation into a domain.Document.
//
// A TOON file has a header line, an optional description comment and
// a body made of "## SECTION" blocks:
//
//	# NOVEL EDITOR AGENT (TOON v1.0)
//	# Edits genre fiction chapter by chapter
//	## ID
//	role: Aria | genre_editor
//	model: sonnet
//	## COMMANDS
//	- help: Show numbered command list
//	- edit: Edit the current chapter → save draft
//
// A "#" outside a section header starts a comment. Section bodies are
// classified by line shape into list, map, mixed or text content.
// Notation glyphs such as → ⟷ ≠ ✓ ✗ ⚠️ are kept verbatim.
package toon
