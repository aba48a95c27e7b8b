package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/migrations"
	"github.com/garyjia/timesheet-reports/pkg/database"
)

// Store is the sqlite-backed port.Store
type Store struct {
	*TimesheetRepository
	*DirectoryRepository
	db *database.DB
}

// Open connects to sqlite and applies migrations from migrationsDir, or the
// embedded schema when it is empty
func Open(ctx context.Context, cfg database.Config, migrationsDir string, logger *zap.Logger) (*Store, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	var schema fs.FS = migrations.FS
	if migrationsDir != "" {
		schema = os.DirFS(migrationsDir)
	}
	if err := database.NewMigrator(db, logger).RunMigrations(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewStore(db, logger), nil
}

// NewStore wraps an already migrated database
func NewStore(db *database.DB, logger *zap.Logger) *Store {
	return &Store{
		TimesheetRepository: NewTimesheetRepository(db, logger),
		DirectoryRepository: NewDirectoryRepository(db, logger),
		db:                  db,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

var _ port.Store = (*Store)(nil)
