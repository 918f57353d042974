package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/toonc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "builds.db"

// Store is a SQLite-backed build history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.toonc/data/builds.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".toonc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets batch workers write while the history command reads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BuildStore returns a BuildStore interface backed by this store.
func (s *Store) BuildStore() driven.BuildStore {
	return &buildStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_builds.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Build Store ====================

// buildStore implements driven.BuildStore.
type buildStore struct {
	store *Store
}

var _ driven.BuildStore = (*buildStore)(nil)

const buildColumns = `id, source_path, output_path, document_id, kind, score, passed, created_at`

// Save stores or replaces a build record.
func (s *buildStore) Save(ctx context.Context, record domain.BuildRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: build record has no id", domain.ErrInvalidInput)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var score sql.NullFloat64
	if record.Score != nil {
		score = sql.NullFloat64{Float64: *record.Score, Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO builds (`+buildColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			output_path = excluded.output_path,
			document_id = excluded.document_id,
			kind = excluded.kind,
			score = excluded.score,
			passed = excluded.passed,
			created_at = excluded.created_at
	`, record.ID, record.SourcePath, record.OutputPath, record.DocumentID,
		record.Kind.String(), score, record.Passed, record.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving build: %w", err)
	}
	return nil
}

// Get retrieves a build record by ID.
func (s *buildStore) Get(ctx context.Context, id string) (*domain.BuildRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	record, err := scanBuild(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning build: %w", err)
	}
	return record, nil
}

// List returns the most recent records, newest first. limit <= 0 means all.
func (s *buildStore) List(ctx context.Context, limit int) ([]domain.BuildRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+buildColumns+` FROM builds
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	return scanBuilds(rows)
}

// ListBySource returns records for one source path, newest first.
func (s *buildStore) ListBySource(ctx context.Context, sourcePath string) ([]domain.BuildRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+buildColumns+` FROM builds
		WHERE source_path = ?
		ORDER BY created_at DESC, rowid DESC
	`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	return scanBuilds(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*domain.BuildRecord, error) {
	var record domain.BuildRecord
	var kind string
	var score sql.NullFloat64
	var createdAt sql.NullTime
	if err := row.Scan(&record.ID, &record.SourcePath, &record.OutputPath, &record.DocumentID,
		&kind, &score, &record.Passed, &createdAt); err != nil {
		return nil, err
	}

	record.Kind = domain.ParseKind(kind)
	if score.Valid {
		v := score.Float64
		record.Score = &v
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time
	}
	return &record, nil
}

func scanBuilds(rows *sql.Rows) ([]domain.BuildRecord, error) {
	defer rows.Close()

	var records []domain.BuildRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating builds: %w", err)
	}
	return records, nil
}
