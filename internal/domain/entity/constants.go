package entity

import "strings"

// Status is the approval state of a single timesheet day entry.
type Status string

// Status constants for TimesheetEntry
const (
	StatusDraft    Status = "Draft"
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Rank orders statuses by precedence when several items share a day.
// Unknown values rank with Draft.
func (s Status) Rank() int {
	switch s {
	case StatusRejected:
		return 4
	case StatusPending:
		return 3
	case StatusApproved:
		return 2
	default:
		return 1
	}
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus normalizes a user supplied status, accepting any letter case.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusDraft, StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, true
		}
	}
	return "", false
}

// WorkItemKind tags what a timesheet line was booked against
type WorkItemKind int

const (
	KindProject WorkItemKind = iota
	KindTeam
	KindLeave
)

// Category returns the display category used in report groupings.
func (k WorkItemKind) Category() string {
	switch k {
	case KindProject:
		return "Project"
	case KindTeam:
		return "Team"
	default:
		return "Leave"
	}
}

// String implements fmt.Stringer
func (k WorkItemKind) String() string {
	return k.Category()
}

// MarshalText lets the kind appear as its category name in JSON previews.
func (k WorkItemKind) MarshalText() ([]byte, error) {
	return []byte(k.Category()), nil
}

// Work type filters accepted by the report builder
const (
	WorkTypeProject = "project"
	WorkTypeTeam    = "team"
	WorkTypeBoth    = "both"
)
