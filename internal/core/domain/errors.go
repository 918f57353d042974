package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedFormat indicates no parser is registered for a source.
	ErrUnsupportedFormat = errors.New("unsupported source format")

	// ErrTemplateNotFound indicates no template exists for a document kind.
	// It points at a missing asset, not at bad input.
	ErrTemplateNotFound = errors.New("template not found")
)

// Compile stages reported in StageError.
const (
	StageRead   = "read"
	StageParse  = "parse"
	StageRender = "render"
	StageWrite  = "write"
)

// StageError names the compile stage that failed.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the failing stage. A nil err yields nil.
func NewStageError(stage, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Path: path, Err: err}
}
