package report

import "github.com/garyjia/timesheet-reports/internal/domain/entity"

// NameResolver looks up display records for IDs found in timesheet data.
type NameResolver interface {
	Employee(id string) (entity.Employee, bool)
	Project(id string) (entity.Project, bool)
	Team(id string) (entity.Team, bool)
}

// Directory is an in-memory NameResolver loaded once per report request.
type Directory struct {
	employees map[string]entity.Employee
	projects  map[string]entity.Project
	teams     map[string]entity.Team
}

// NewDirectory indexes the given display records by ID
func NewDirectory(employees []entity.Employee, projects []entity.Project, teams []entity.Team) *Directory {
	d := &Directory{
		employees: make(map[string]entity.Employee, len(employees)),
		projects:  make(map[string]entity.Project, len(projects)),
		teams:     make(map[string]entity.Team, len(teams)),
	}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	for _, p := range projects {
		d.projects[p.ID] = p
	}
	for _, t := range teams {
		d.teams[t.ID] = t
	}
	return d
}

func (d *Directory) Employee(id string) (entity.Employee, bool) {
	e, ok := d.employees[id]
	return e, ok
}

func (d *Directory) Project(id string) (entity.Project, bool) {
	p, ok := d.projects[id]
	return p, ok
}

func (d *Directory) Team(id string) (entity.Team, bool) {
	t, ok := d.teams[id]
	return t, ok
}
