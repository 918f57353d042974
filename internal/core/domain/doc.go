// Package domain defines the core business entities for toonc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed agent specification (TOON or frontmatter Markdown)
//   - SectionContent: The shape of one named section (list, map, mixed, text)
//   - CompileResult: The rendered artifact and what went into it
//   - ValidationReport: The roundtrip equivalence score of a compiled artifact
//   - BuildRecord: A persisted history entry for one compile
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
