package entity

import "time"

// TimesheetEntry is one employee's hours for one calendar day against one
// work item. ProjectID, TaskID and TeamID are empty when unset.
type TimesheetEntry struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	EmployeeID      string     `json:"employee_id" bson:"employee_id"`
	Date            time.Time  `json:"date" bson:"date"`
	ProjectID       string     `json:"project_id,omitempty" bson:"project_id,omitempty"`
	TaskID          string     `json:"task_id,omitempty" bson:"task_id,omitempty"`
	TeamID          string     `json:"team_id,omitempty" bson:"team_id,omitempty"`
	Work            string     `json:"work,omitempty" bson:"work,omitempty"`
	Hours           float64    `json:"hours" bson:"hours"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	Status          Status     `json:"status" bson:"status"`
	SubmissionDate  *time.Time `json:"submission_date,omitempty" bson:"submission_date,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty" bson:"approval_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
}

// Kind resolves what the entry was booked against. A project wins over a
// team; an entry with neither is leave.
func (e *TimesheetEntry) Kind() WorkItemKind {
	switch {
	case e.ProjectID != "":
		return KindProject
	case e.TeamID != "":
		return KindTeam
	default:
		return KindLeave
	}
}

// TimesheetQuery selects the entries a report is built from.
// Empty slices mean "no restriction".
type TimesheetQuery struct {
	Start       time.Time
	End         time.Time
	EmployeeIDs []string
	ProjectIDs  []string
	TeamIDs     []string
	Statuses    []Status
}
