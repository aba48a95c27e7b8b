package port

import (
	"context"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// TimesheetRepository reads timesheet entries for reporting
type TimesheetRepository interface {
	// Find returns entries matching the query. Empty filter slices match everything.
	Find(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error)
}

// EmployeeDirectory resolves employee display records.
// A nil ids slice lists every employee.
type EmployeeDirectory interface {
	ListEmployees(ctx context.Context, ids []string) ([]entity.Employee, error)
}

// ProjectDirectory resolves project display records
type ProjectDirectory interface {
	ListProjects(ctx context.Context, ids []string) ([]entity.Project, error)
}

// TeamDirectory resolves team display records
type TeamDirectory interface {
	ListTeams(ctx context.Context, ids []string) ([]entity.Team, error)
}

// DataWriter loads fixture data into a store. Only the seed tool writes.
type DataWriter interface {
	SaveEmployees(ctx context.Context, employees []entity.Employee) error
	SaveProjects(ctx context.Context, projects []entity.Project) error
	SaveTeams(ctx context.Context, teams []entity.Team) error
	SaveTimesheets(ctx context.Context, entries []entity.TimesheetEntry) error
}

// Store bundles every port a backing database provides
type Store interface {
	TimesheetRepository
	EmployeeDirectory
	ProjectDirectory
	TeamDirectory
	DataWriter
	Ping(ctx context.Context) error
	Close() error
}
