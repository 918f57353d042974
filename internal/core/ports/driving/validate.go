package driving

import (
	"context"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// ValidateService scores roundtrip equivalence.
type ValidateService interface {
	// Validate compares original source text with compiled text.
	Validate(original, compiled string) domain.ValidationReport

	// ValidateFiles reads both files and validates them.
	ValidateFiles(ctx context.Context, originalPath, compiledPath string) (domain.ValidationReport, error)
}
