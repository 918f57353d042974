package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
)

// Ensure BuildStore implements the interface.
var _ driven.BuildStore = (*BuildStore)(nil)

// BuildStore is an in-memory implementation of driven.BuildStore.
type BuildStore struct {
	mu      sync.RWMutex
	records map[string]domain.BuildRecord
	order   map[string]int
	seq     int
}

// NewBuildStore creates a new in-memory build store.
func NewBuildStore() *BuildStore {
	return &BuildStore{
		records: make(map[string]domain.BuildRecord),
		order:   make(map[string]int),
	}
}

// Save stores or replaces a build record.
func (s *BuildStore) Save(_ context.Context, record domain.BuildRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: build record has no id", domain.ErrInvalidInput)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.order[record.ID]; !ok {
		s.seq++
		s.order[record.ID] = s.seq
	}
	s.records[record.ID] = record
	return nil
}

// Get retrieves a build record by ID.
func (s *BuildStore) Get(_ context.Context, id string) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns the most recent records, newest first. limit <= 0 means all.
func (s *BuildStore) List(_ context.Context, limit int) ([]domain.BuildRecord, error) {
	records := s.sorted(func(domain.BuildRecord) bool { return true })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ListBySource returns records for one source path, newest first.
func (s *BuildStore) ListBySource(_ context.Context, sourcePath string) ([]domain.BuildRecord, error) {
	return s.sorted(func(r domain.BuildRecord) bool { return r.SourcePath == sourcePath }), nil
}

func (s *BuildStore) sorted(keep func(domain.BuildRecord) bool) []domain.BuildRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BuildRecord, 0, len(s.records))
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	return out
}
