package driving

import (
	"context"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// HistoryService reads compile history.
type HistoryService interface {
	// Recent returns the latest build records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.BuildRecord, error)

	// ForSource returns the records for one source file.
	ForSource(ctx context.Context, sourcePath string) ([]domain.BuildRecord, error)
}
