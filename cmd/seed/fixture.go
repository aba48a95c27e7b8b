package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/pkg/utils"
)

const dateLayout = "2006-01-02"

type fixtureFile struct {
	Employees  []entity.Employee `json:"employees"`
	Projects   []entity.Project  `json:"projects"`
	Teams      []entity.Team     `json:"teams"`
	Timesheets []fixtureEntry    `json:"timesheets"`
}

// fixtureEntry carries calendar dates as YYYY-MM-DD
type fixtureEntry struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	ProjectID       string  `json:"project_id"`
	TaskID          string  `json:"task_id"`
	TeamID          string  `json:"team_id"`
	Work            string  `json:"work"`
	Hours           float64 `json:"hours"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	SubmissionDate  string  `json:"submission_date"`
	ApprovalDate    string  `json:"approval_date"`
	RejectionReason string  `json:"rejection_reason"`
}

type fixture struct {
	Employees []entity.Employee
	Projects  []entity.Project
	Teams     []entity.Team
	Entries   []entity.TimesheetEntry
}

func parseFixture(data []byte) (*fixture, error) {
	var raw fixtureFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	for _, e := range raw.Employees {
		if err := utils.ValidateID("employee", e.ID); err != nil {
			return nil, err
		}
		if err := utils.ValidateEmail(e.Email); err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.ID, err)
		}
	}
	for _, p := range raw.Projects {
		if err := utils.ValidateID("project", p.ID); err != nil {
			return nil, err
		}
	}
	for _, t := range raw.Teams {
		if err := utils.ValidateID("team", t.ID); err != nil {
			return nil, err
		}
	}

	fx := &fixture{
		Employees: raw.Employees,
		Projects:  raw.Projects,
		Teams:     raw.Teams,
		Entries:   make([]entity.TimesheetEntry, 0, len(raw.Timesheets)),
	}
	for i, r := range raw.Timesheets {
		entry, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("timesheets[%d]: %w", i, err)
		}
		fx.Entries = append(fx.Entries, entry)
	}
	return fx, nil
}

func (r fixtureEntry) toEntry() (entity.TimesheetEntry, error) {
	if err := utils.ValidateID("employee", r.EmployeeID); err != nil {
		return entity.TimesheetEntry{}, err
	}
	if err := utils.ValidateHours(r.Hours); err != nil {
		return entity.TimesheetEntry{}, err
	}

	date, err := time.ParseInLocation(dateLayout, r.Date, time.UTC)
	if err != nil {
		return entity.TimesheetEntry{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	status := entity.StatusDraft
	if r.Status != "" {
		s, ok := entity.ParseStatus(r.Status)
		if !ok {
			return entity.TimesheetEntry{}, fmt.Errorf("unknown status %q", r.Status)
		}
		status = s
	}

	submitted, err := parseOptionalTime(r.SubmissionDate)
	if err != nil {
		return entity.TimesheetEntry{}, err
	}
	approved, err := parseOptionalTime(r.ApprovalDate)
	if err != nil {
		return entity.TimesheetEntry{}, err
	}

	return entity.TimesheetEntry{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Date:            date,
		ProjectID:       r.ProjectID,
		TaskID:          r.TaskID,
		TeamID:          r.TeamID,
		Work:            utils.SanitizeString(r.Work),
		Hours:           r.Hours,
		Description:     utils.SanitizeString(r.Description),
		Status:          status,
		SubmissionDate:  submitted,
		ApprovalDate:    approved,
		RejectionReason: r.RejectionReason,
	}, nil
}

// parseOptionalTime accepts RFC 3339 timestamps or plain dates
func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q", raw)
	}
	return &t, nil
}
