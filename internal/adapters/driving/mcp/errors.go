// Package mcp provides an MCP (Model Context Protocol) server adapter for toonc.
// It lets AI assistants parse, compile, and validate agent definitions.
package mcp

import "errors"

var (
	// ErrMissingCompileService is returned when the compile service is not provided.
	ErrMissingCompileService = errors.New("mcp: compile service is required")

	// ErrMissingValidateService is returned when the validate service is not provided.
	ErrMissingValidateService = errors.New("mcp: validate service is required")

	// ErrMissingInput is returned when a tool gets neither text nor a path.
	ErrMissingInput = errors.New("mcp: text or path is required")
)
