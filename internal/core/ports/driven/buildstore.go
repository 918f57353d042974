package driven

import (
	"context"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// BuildStore persists compile history.
type BuildStore interface {
	// Save stores a build record.
	Save(ctx context.Context, record domain.BuildRecord) error

	// Get retrieves a build record by ID.
	Get(ctx context.Context, id string) (*domain.BuildRecord, error)

	// List returns the most recent records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.BuildRecord, error)

	// ListBySource returns records for one source path, newest first.
	ListBySource(ctx context.Context, sourcePath string) ([]domain.BuildRecord, error)
}
