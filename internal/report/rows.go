package report

import (
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// RowItem is a work item with its IDs resolved to display names.
type RowItem struct {
	Kind         entity.WorkItemKind        `json:"kind"`
	ProjectID    string                     `json:"project_id,omitempty"`
	ProjectName  string                     `json:"project_name,omitempty"`
	TaskID       string                     `json:"task_id,omitempty"`
	TeamID       string                     `json:"team_id,omitempty"`
	TeamName     string                     `json:"team_name,omitempty"`
	Work         string                     `json:"work,omitempty"`
	Hours        [DaysPerWeek]float64       `json:"hours"`
	Descriptions [DaysPerWeek]string        `json:"descriptions"`
	DailyStatus  [DaysPerWeek]entity.Status `json:"daily_status"`
	TotalHours   float64                    `json:"total_hours"`
}

// Title names the sub-table the item belongs to.
func (i RowItem) Title() string {
	switch i.Kind {
	case entity.KindProject:
		return "Project: " + i.ProjectName
	case entity.KindTeam:
		return "Team: " + i.TeamName
	default:
		return i.Kind.Category()
	}
}

// RowCategory is a category group with resolved items
type RowCategory struct {
	Kind  entity.WorkItemKind `json:"kind"`
	Items []RowItem           `json:"items"`
}

// ReportRow is one employee's week, the unit both renderers consume.
type ReportRow struct {
	EmployeeID      string        `json:"employee_id"`
	EmployeeName    string        `json:"employee_name"`
	EmployeeEmail   string        `json:"employee_email"`
	WeekStart       time.Time     `json:"week_start"`
	WeekEnd         time.Time     `json:"week_end"`
	Status          entity.Status `json:"status"`
	SubmissionDate  *time.Time    `json:"submission_date,omitempty"`
	ApprovalDate    *time.Time    `json:"approval_date,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	TotalHours      float64       `json:"total_hours"`
	Categories      []RowCategory `json:"categories"`
}

// RowOptions filters what the row builder keeps.
type RowOptions struct {
	// WorkType is project, team or both; empty means both.
	WorkType string
	// IncludeNonDepartmentTeams keeps items booked against cross-functional
	// teams, which are hidden by default.
	IncludeNonDepartmentTeams bool
}

// RowBuilder turns weekly buckets into report rows.
type RowBuilder struct {
	resolver NameResolver
	opts     RowOptions
	logger   *zap.Logger
}

// NewRowBuilder creates a RowBuilder
func NewRowBuilder(resolver NameResolver, opts RowOptions, logger *zap.Logger) *RowBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RowBuilder{resolver: resolver, opts: opts, logger: logger}
}

// Build returns one row per bucket, in bucket order.
func (b *RowBuilder) Build(buckets []WeeklyBucket) []ReportRow {
	rows := make([]ReportRow, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, b.buildRow(bucket))
	}
	return rows
}

func (b *RowBuilder) buildRow(bucket WeeklyBucket) ReportRow {
	row := b.emptyRow(bucket.EmployeeID, bucket.WeekStart)
	row.SubmissionDate = bucket.SubmissionDate
	row.ApprovalDate = bucket.ApprovalDate
	row.RejectionReason = bucket.RejectionReason

	var kept []WorkItem
	total := 0.0
	for _, group := range bucket.Categories {
		if !b.allowKind(group.Kind) {
			continue
		}
		category := RowCategory{Kind: group.Kind}
		for _, item := range group.Items {
			if !b.visible(item) {
				continue
			}
			resolved := b.resolveItem(item)
			total += sumWorkDays(item.Hours)
			category.Items = append(category.Items, resolved)
			kept = append(kept, item)
		}
		if len(category.Items) > 0 {
			row.Categories = append(row.Categories, category)
		}
	}

	row.TotalHours = Round2(total)
	row.Status = WeekStatus(kept)
	return row
}

// EnsureEmployees appends an empty row, for the week containing weekOf, for
// every selected employee that has no row yet.
func (b *RowBuilder) EnsureEmployees(rows []ReportRow, employeeIDs []string, weekOf time.Time) []ReportRow {
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.EmployeeID] = true
	}
	week := WeekStart(weekOf)
	for _, id := range employeeIDs {
		if present[id] {
			continue
		}
		present[id] = true
		rows = append(rows, b.emptyRow(id, week))
	}
	return rows
}

func (b *RowBuilder) emptyRow(employeeID string, week time.Time) ReportRow {
	row := ReportRow{
		EmployeeID:   employeeID,
		EmployeeName: employeeID,
		WeekStart:    week,
		WeekEnd:      WeekEnd(week),
		Status:       entity.StatusPending,
		Categories:   []RowCategory{},
	}
	if emp, ok := b.resolver.Employee(employeeID); ok {
		row.EmployeeName = emp.DisplayName()
		row.EmployeeEmail = emp.Email
	} else {
		b.logger.Debug("Employee not found, using raw ID", zap.String("employee_id", employeeID))
	}
	return row
}

func (b *RowBuilder) allowKind(kind entity.WorkItemKind) bool {
	switch b.opts.WorkType {
	case entity.WorkTypeProject:
		return kind == entity.KindProject
	case entity.WorkTypeTeam:
		return kind == entity.KindTeam
	default:
		return true
	}
}

func (b *RowBuilder) visible(item WorkItem) bool {
	if item.Kind != entity.KindTeam || b.opts.IncludeNonDepartmentTeams {
		return true
	}
	team, ok := b.resolver.Team(item.TeamID)
	// Unknown teams cannot be classified; keep them visible.
	return !ok || team.IsDepartment
}

func (b *RowBuilder) resolveItem(item WorkItem) RowItem {
	resolved := RowItem{
		Kind:         item.Kind,
		ProjectID:    item.ProjectID,
		TaskID:       item.TaskID,
		TeamID:       item.TeamID,
		Work:         item.Work,
		Hours:        item.Hours,
		Descriptions: item.Descriptions,
		DailyStatus:  item.DailyStatus,
		TotalHours:   Round2(sumWorkDays(item.Hours)),
	}
	if item.ProjectID != "" {
		resolved.ProjectName = item.ProjectID
		if p, ok := b.resolver.Project(item.ProjectID); ok && p.Name != "" {
			resolved.ProjectName = p.Name
		} else {
			b.logger.Debug("Project not found, using raw ID", zap.String("project_id", item.ProjectID))
		}
	}
	if item.TeamID != "" {
		resolved.TeamName = item.TeamID
		if t, ok := b.resolver.Team(item.TeamID); ok && t.Name != "" {
			resolved.TeamName = t.Name
		} else {
			b.logger.Debug("Team not found, using raw ID", zap.String("team_id", item.TeamID))
		}
	}
	return resolved
}
