package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/pkg/database"
)

// DirectoryRepository serves employee, project and team display records
type DirectoryRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *database.DB, logger *zap.Logger) *DirectoryRepository {
	return &DirectoryRepository{
		db:     db,
		logger: logger,
	}
}

// ListEmployees returns employees with the given IDs, or all when ids is nil
func (r *DirectoryRepository) ListEmployees(ctx context.Context, ids []string) ([]entity.Employee, error) {
	var where whereBuilder
	where.in("id", ids)

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, first_name, last_name, email FROM employees"+where.String()+" ORDER BY id",
		where.args...)
	if err != nil {
		r.logger.Error("Failed to query employees", zap.Error(err))
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var out []entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListProjects returns projects with the given IDs, or all when ids is nil
func (r *DirectoryRepository) ListProjects(ctx context.Context, ids []string) ([]entity.Project, error) {
	var where whereBuilder
	where.in("id", ids)

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM projects"+where.String()+" ORDER BY id",
		where.args...)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var out []entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListTeams returns teams with the given IDs, or all when ids is nil
func (r *DirectoryRepository) ListTeams(ctx context.Context, ids []string) ([]entity.Team, error) {
	var where whereBuilder
	where.in("id", ids)

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, is_department FROM teams"+where.String()+" ORDER BY id",
		where.args...)
	if err != nil {
		r.logger.Error("Failed to query teams", zap.Error(err))
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var out []entity.Team
	for rows.Next() {
		var t entity.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.IsDepartment); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveEmployees upserts employees
func (r *DirectoryRepository) SaveEmployees(ctx context.Context, employees []entity.Employee) error {
	return r.upsert(ctx, "employees",
		"INSERT OR REPLACE INTO employees (id, first_name, last_name, email) VALUES (?, ?, ?, ?)",
		len(employees), func(i int) []interface{} {
			e := employees[i]
			return []interface{}{e.ID, e.FirstName, e.LastName, e.Email}
		})
}

// SaveProjects upserts projects
func (r *DirectoryRepository) SaveProjects(ctx context.Context, projects []entity.Project) error {
	return r.upsert(ctx, "projects",
		"INSERT OR REPLACE INTO projects (id, name) VALUES (?, ?)",
		len(projects), func(i int) []interface{} {
			return []interface{}{projects[i].ID, projects[i].Name}
		})
}

// SaveTeams upserts teams
func (r *DirectoryRepository) SaveTeams(ctx context.Context, teams []entity.Team) error {
	return r.upsert(ctx, "teams",
		"INSERT OR REPLACE INTO teams (id, name, is_department) VALUES (?, ?, ?)",
		len(teams), func(i int) []interface{} {
			return []interface{}{teams[i].ID, teams[i].Name, teams[i].IsDepartment}
		})
}

func (r *DirectoryRepository) upsert(ctx context.Context, table, query string, n int, args func(i int) []interface{}) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s upsert: %w", table, err)
		}
		defer stmt.Close()

		for i := 0; i < n; i++ {
			if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
				r.logger.Error("Failed to save record", zap.String("table", table), zap.Error(err))
				return fmt.Errorf("failed to save %s record: %w", table, err)
			}
		}
		return nil
	})
}

var (
	_ port.EmployeeDirectory = (*DirectoryRepository)(nil)
	_ port.ProjectDirectory  = (*DirectoryRepository)(nil)
	_ port.TeamDirectory     = (*DirectoryRepository)(nil)
)
