// Package roundtrip scores how well a compiled artifact preserves the
// content of its source.
//
// Validation never reuses the source parsers. It extracts comparable facets
// (commands, dependencies, frontmatter, critical sections, embedded
// knowledge regions) from both texts with its own line scanning, so it
// checks the output format rather than the internal document model.
//
// # Scoring
//
// Each facet is worth a fixed weight (see domain.WeightCommands and
// friends). A facet that cannot be evaluated counts as failed and adds a
// line to ValidationReport.Differences; Validate never returns an error.
package roundtrip
