package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads compile history from the build store.
type HistoryService struct {
	builds driven.BuildStore
}

// NewHistoryService creates a new history service. A nil store yields
// empty history.
func NewHistoryService(builds driven.BuildStore) *HistoryService {
	return &HistoryService{builds: builds}
}

// Recent returns the latest build records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.BuildRecord, error) {
	if s.builds == nil {
		return nil, nil
	}
	records, err := s.builds.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	return records, nil
}

// ForSource returns the records for one source file. The path is cleaned
// so "./a.toon" and "a.toon" match.
func (s *HistoryService) ForSource(ctx context.Context, sourcePath string) ([]domain.BuildRecord, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("%w: source path is empty", domain.ErrInvalidInput)
	}
	if s.builds == nil {
		return nil, nil
	}
	records, err := s.builds.ListBySource(ctx, filepath.Clean(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("list builds for %s: %w", sourcePath, err)
	}
	return records, nil
}
