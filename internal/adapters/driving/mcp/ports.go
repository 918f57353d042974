package mcp

import (
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Compile parses and renders sources.
	Compile driving.CompileService

	// Validator scores roundtrip equivalence.
	Validator driving.ValidateService

	// History reads compile history.
	History driving.HistoryService

	// Version is reported to clients.
	Version string
}

// Validate returns the sentinel for the first missing required port.
func (p *Ports) Validate() error {
	if p.Compile == nil {
		return ErrMissingCompileService
	}
	if p.Validator == nil {
		return ErrMissingValidateService
	}
	// History is optional
	return nil
}
