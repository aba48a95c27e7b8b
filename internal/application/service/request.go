package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/internal/report"
)

// Format is the output the caller asked for
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatJSON  Format = "json"
)

// View selects the JSON preview shape
type View string

const (
	ViewRows    View = "rows"
	ViewGrouped View = "grouped"
)

// ReportRequest carries the caller's report parameters.
// Start and End are inclusive calendar days; zero means unbounded.
type ReportRequest struct {
	Format      Format
	Kind        report.Kind
	Layout      report.Layout
	View        View
	Start       time.Time
	End         time.Time
	EmployeeIDs []string
	ProjectIDs  []string
	TeamIDs     []string
	Statuses    []entity.Status
	WorkType    string

	// IncludeNonDepartmentTeams is nil when the caller did not say; the
	// team filter then decides.
	IncludeNonDepartmentTeams *bool
}

// Normalize fills defaults and validates the request in place.
func (r *ReportRequest) Normalize(defaultWorkType string) error {
	switch r.Format {
	case FormatPDF, FormatExcel, FormatJSON:
	case "":
		r.Format = FormatPDF
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, r.Format)
	}

	switch r.Kind {
	case report.KindDetailed, report.KindWeekly:
	case "":
		r.Kind = report.KindDetailed
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidOption, r.Kind)
	}

	switch r.Layout {
	case report.LayoutEmployee, report.LayoutCombined:
	case "":
		r.Layout = report.LayoutEmployee
	default:
		return fmt.Errorf("%w: layout %q", ErrInvalidOption, r.Layout)
	}

	switch r.View {
	case ViewRows, ViewGrouped:
	case "":
		r.View = ViewRows
	default:
		return fmt.Errorf("%w: view %q", ErrInvalidOption, r.View)
	}

	if r.WorkType == "" {
		r.WorkType = defaultWorkType
	}
	switch r.WorkType {
	case entity.WorkTypeProject, entity.WorkTypeTeam, entity.WorkTypeBoth, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWorkType, r.WorkType)
	}

	for _, s := range r.Statuses {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
		}
	}

	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}

	r.EmployeeIDs = compactIDs(r.EmployeeIDs)
	r.ProjectIDs = compactIDs(r.ProjectIDs)
	r.TeamIDs = compactIDs(r.TeamIDs)
	return nil
}

// compactIDs trims, drops blanks and removes duplicates keeping order
func compactIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
