package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// defaultSourcePath selects the TOON parser for inline text.
const defaultSourcePath = "agent.toon"

// ParseInput is the input schema for the parse_toon tool.
type ParseInput struct {
	Text string `json:"text,omitempty" jsonschema:"source text to parse"`
	Path string `json:"path,omitempty" jsonschema:"source file to parse, or the name that selects the parser for text (default agent.toon)"`
}

// ParseOutput is the output schema for the parse_toon tool.
type ParseOutput struct {
	Document domain.DocumentView `json:"document"`
}

// CompileInput is the input schema for the compile_agent tool.
type CompileInput struct {
	SourcePath string `json:"source_path,omitempty" jsonschema:"source file to compile and write"`
	OutputDir  string `json:"output_dir,omitempty" jsonschema:"directory for the compiled artifact (default from settings)"`
	Text       string `json:"text,omitempty" jsonschema:"source text to render without writing a file"`
	Validate   bool   `json:"validate,omitempty" jsonschema:"run roundtrip validation on the output"`
}

// CompileOutput is the output schema for the compile_agent tool.
type CompileOutput struct {
	DocumentID string                `json:"document_id"`
	OutputPath string                `json:"output_path,omitempty"`
	Rendered   string                `json:"rendered"`
	Commands   []domain.AgentCommand `json:"commands"`
	Warnings   []string              `json:"warnings,omitempty"`
	Score      *float64              `json:"score,omitempty"`
}

// ValidateInput is the input schema for the validate_roundtrip tool.
type ValidateInput struct {
	Original     string `json:"original,omitempty" jsonschema:"original source text"`
	Compiled     string `json:"compiled,omitempty" jsonschema:"compiled markdown text"`
	OriginalPath string `json:"original_path,omitempty" jsonschema:"original source file (used with compiled_path)"`
	CompiledPath string `json:"compiled_path,omitempty" jsonschema:"compiled markdown file (used with original_path)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_toon",
		Description: "Parse a TOON or frontmatter agent definition into its document model",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compile_agent",
		Description: "Compile an agent definition into Markdown with a YAML header",
	}, s.handleCompile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_roundtrip",
		Description: "Score how well a compiled artifact preserves its source",
	}, s.handleValidate)
}

// handleParse handles the parse_toon tool invocation.
func (s *Server) handleParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	var (
		doc domain.Document
		err error
	)
	switch {
	case input.Text != "":
		path := input.Path
		if path == "" {
			path = defaultSourcePath
		}
		doc, err = s.ports.Compile.ParseText(ctx, path, input.Text)
	case input.Path != "":
		doc, err = s.ports.Compile.Parse(ctx, input.Path)
	default:
		return nil, ParseOutput{}, ErrMissingInput
	}
	if err != nil {
		return nil, ParseOutput{}, err
	}

	return nil, ParseOutput{Document: doc.View()}, nil
}

// handleCompile handles the compile_agent tool invocation.
// Text is rendered in memory; a source path is compiled to disk.
func (s *Server) handleCompile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompileInput,
) (*mcp.CallToolResult, CompileOutput, error) {
	var (
		result *domain.CompileResult
		err    error
	)
	switch {
	case input.Text != "":
		path := input.SourcePath
		if path == "" {
			path = defaultSourcePath
		}
		result, err = s.ports.Compile.Render(ctx, path, input.Text)
		if err == nil && input.Validate {
			report := s.ports.Validator.Validate(input.Text, result.Rendered)
			result.Report = &report
		}
	case input.SourcePath != "":
		opts := driving.CompileOptions{Validate: input.Validate}
		result, err = s.ports.Compile.Compile(ctx, input.SourcePath, input.OutputDir, opts)
	default:
		return nil, CompileOutput{}, ErrMissingInput
	}
	if err != nil {
		return nil, CompileOutput{}, err
	}

	output := CompileOutput{
		DocumentID: result.Document.ID,
		OutputPath: result.OutputPath,
		Rendered:   result.Rendered,
		Commands:   result.Commands,
		Warnings:   result.Warnings,
	}
	if output.Commands == nil {
		output.Commands = []domain.AgentCommand{}
	}
	if result.Report != nil {
		score := result.Report.EquivalenceScore
		output.Score = &score
	}

	return nil, output, nil
}

// handleValidate handles the validate_roundtrip tool invocation.
// File paths take precedence when both are given.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, domain.ValidationReport, error) {
	if input.OriginalPath != "" && input.CompiledPath != "" {
		report, err := s.ports.Validator.ValidateFiles(ctx, input.OriginalPath, input.CompiledPath)
		if err != nil {
			return nil, domain.ValidationReport{}, err
		}
		return nil, report, nil
	}

	return nil, s.ports.Validator.Validate(input.Original, input.Compiled), nil
}
