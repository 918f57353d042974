package domain

import "time"

// BuildRecord is one persisted compile outcome.
type BuildRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// SourcePath is the compiled source file.
	SourcePath string `json:"source_path"`

	// OutputPath is the written artifact.
	OutputPath string `json:"output_path"`

	// DocumentID is the resolved document id.
	DocumentID string `json:"document_id"`

	// Kind is the document kind.
	Kind Kind `json:"kind"`

	// Score is the equivalence score when validation ran.
	Score *float64 `json:"score,omitempty"`

	// Passed reports whether the score met the configured minimum.
	Passed bool `json:"passed"`

	// CreatedAt is when the compile finished.
	CreatedAt time.Time `json:"created_at"`
}

// BuildOutcome pairs a batch input with its result or error.
type BuildOutcome struct {
	SourcePath string
	Result     *CompileResult
	Err        error
}
