package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/pkg/database"
)

// TimesheetRepository implements port.TimesheetRepository
type TimesheetRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTimesheetRepository creates a new timesheet repository
func NewTimesheetRepository(db *database.DB, logger *zap.Logger) *TimesheetRepository {
	return &TimesheetRepository{
		db:     db,
		logger: logger,
	}
}

// Find returns entries in insertion order per employee and day, so the
// aggregator's last-write-wins sees the newest duplicate last.
func (r *TimesheetRepository) Find(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error) {
	var where whereBuilder
	if !q.Start.IsZero() {
		where.add("work_date >= ?", q.Start.Format(dateLayout))
	}
	if !q.End.IsZero() {
		where.add("work_date <= ?", q.End.Format(dateLayout))
	}
	where.in("employee_id", q.EmployeeIDs)

	switch {
	case len(q.ProjectIDs) > 0 && len(q.TeamIDs) > 0:
		projects, pargs := inClause("project_id", q.ProjectIDs)
		teams, targs := inClause("team_id", q.TeamIDs)
		where.add("("+projects+" OR "+teams+")", append(pargs, targs...)...)
	default:
		where.in("project_id", q.ProjectIDs)
		where.in("team_id", q.TeamIDs)
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		where.in("status", statuses)
	}

	query := `
		SELECT id, employee_id, work_date, project_id, task_id, team_id, work,
			hours, description, status, submission_date, approval_date, rejection_reason
		FROM timesheets` + where.String() + `
		ORDER BY employee_id, work_date, rowid
	`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		r.logger.Error("Failed to query timesheets", zap.Error(err))
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var entries []entity.TimesheetEntry
	for rows.Next() {
		var (
			e         entity.TimesheetEntry
			workDate  string
			status    string
			submitted sql.NullTime
			approved  sql.NullTime
		)
		if err := rows.Scan(
			&e.ID,
			&e.EmployeeID,
			&workDate,
			&e.ProjectID,
			&e.TaskID,
			&e.TeamID,
			&e.Work,
			&e.Hours,
			&e.Description,
			&status,
			&submitted,
			&approved,
			&e.RejectionReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}

		e.Date, err = time.ParseInLocation(dateLayout, workDate, time.UTC)
		if err != nil {
			r.logger.Warn("Skipping timesheet with unreadable date",
				zap.String("id", e.ID),
				zap.String("work_date", workDate))
			continue
		}
		e.Status = entity.Status(status)
		if submitted.Valid {
			e.SubmissionDate = &submitted.Time
		}
		if approved.Valid {
			e.ApprovalDate = &approved.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timesheets: %w", err)
	}

	r.logger.Debug("Timesheets loaded", zap.Int("count", len(entries)))
	return entries, nil
}

// SaveTimesheets inserts or replaces entries in one transaction.
// Entries without an ID get a fresh UUID.
func (r *TimesheetRepository) SaveTimesheets(ctx context.Context, entries []entity.TimesheetEntry) error {
	query := `
		INSERT OR REPLACE INTO timesheets (
			id, employee_id, work_date, project_id, task_id, team_id, work,
			hours, description, status, submission_date, approval_date, rejection_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare timesheet insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			id := e.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := stmt.ExecContext(ctx,
				id,
				e.EmployeeID,
				e.Date.Format(dateLayout),
				e.ProjectID,
				e.TaskID,
				e.TeamID,
				e.Work,
				e.Hours,
				e.Description,
				string(e.Status),
				nullTime(e.SubmissionDate),
				nullTime(e.ApprovalDate),
				e.RejectionReason,
			); err != nil {
				r.logger.Error("Failed to save timesheet", zap.String("id", id), zap.Error(err))
				return fmt.Errorf("failed to save timesheet %s: %w", id, err)
			}
		}
		return nil
	})
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ port.TimesheetRepository = (*TimesheetRepository)(nil)
