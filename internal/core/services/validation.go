package services

import (
	"context"
	"os"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
	"github.com/custodia-labs/toonc/internal/roundtrip"
)

// Ensure ValidateService implements the interface.
var _ driving.ValidateService = (*ValidateService)(nil)

// ValidateService scores compiled artifacts against their sources.
type ValidateService struct{}

// NewValidateService creates a new validate service.
func NewValidateService() *ValidateService {
	return &ValidateService{}
}

// Validate compares original source text with compiled text.
func (s *ValidateService) Validate(original, compiled string) domain.ValidationReport {
	return roundtrip.Validate(original, compiled)
}

// ValidateFiles reads both files and validates them.
func (s *ValidateService) ValidateFiles(ctx context.Context, originalPath, compiledPath string) (domain.ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.ValidationReport{}, err
	}

	original, err := os.ReadFile(originalPath)
	if err != nil {
		return domain.ValidationReport{}, domain.NewStageError(domain.StageRead, originalPath, err)
	}
	compiled, err := os.ReadFile(compiledPath)
	if err != nil {
		return domain.ValidationReport{}, domain.NewStageError(domain.StageRead, compiledPath, err)
	}

	return s.Validate(string(original), string(compiled)), nil
}
