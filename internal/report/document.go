package report

import (
	"sort"
	"strings"
	"time"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// Kind selects which report is rendered.
type Kind string

const (
	// KindDetailed renders per-category sub-tables of weekday hours.
	KindDetailed Kind = "detailed"
	// KindWeekly renders one line per employee week with its approval state.
	KindWeekly Kind = "weekly"
)

// Layout selects how rows are split into sections.
type Layout string

const (
	LayoutEmployee Layout = "employee"
	LayoutCombined Layout = "combined"
)

// Company is the letterhead printed at the top of both renderings.
type Company struct {
	Name     string   `json:"name"`
	Address  []string `json:"address,omitempty"`
	LogoPath string   `json:"-"`
}

// Period is the inclusive date range a report covers.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// String renders the period for headings.
func (p Period) String() string {
	if p.Start.IsZero() && p.End.IsZero() {
		return "All dates"
	}
	return p.Start.Format(dateLayout) + " to " + p.End.Format(dateLayout)
}

// Meta describes the report being rendered.
type Meta struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Company     Company   `json:"company"`
	Period      Period    `json:"period"`
	Kind        Kind      `json:"kind"`
	Layout      Layout    `json:"layout"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Section is the block of a report belonging to one employee, or to every
// employee in combined layout.
type Section struct {
	EmployeeID    string            `json:"employee_id,omitempty"`
	Name          string            `json:"name"`
	Email         string            `json:"email,omitempty"`
	Rows          []ReportRow       `json:"rows"`
	Tables        []SubTable        `json:"tables"`
	WeekdayTotals [WorkDays]float64 `json:"weekday_totals"`
	TotalHours    float64           `json:"total_hours"`
}

// MixedCategories reports whether the section spans more than one category.
func (s Section) MixedCategories() bool {
	seen := make(map[entity.WorkItemKind]bool)
	for _, t := range s.Tables {
		seen[t.Kind] = true
	}
	return len(seen) > 1
}

// Document is everything a renderer needs. Both renderers print the same
// figures from it.
type Document struct {
	Meta     Meta      `json:"meta"`
	Sections []Section `json:"sections"`
	Summary  Summary   `json:"summary"`
}

// Empty reports whether no section has any hours or rows to show.
func (d *Document) Empty() bool {
	for _, s := range d.Sections {
		if len(s.Rows) > 0 {
			return false
		}
	}
	return true
}

// Compose groups rows into sections and computes their totals and the
// overall summary.
func Compose(rows []ReportRow, meta Meta, hoursPerDay float64) *Document {
	if meta.Kind == "" {
		meta.Kind = KindDetailed
	}
	if meta.Layout == "" {
		meta.Layout = LayoutEmployee
	}

	doc := &Document{Meta: meta, Summary: Summarize(rows, hoursPerDay)}
	if len(rows) == 0 {
		doc.Sections = []Section{}
		return doc
	}

	if meta.Layout == LayoutCombined {
		all := append([]ReportRow(nil), rows...)
		sort.SliceStable(all, func(i, j int) bool {
			if all[i].EmployeeName != all[j].EmployeeName {
				return all[i].EmployeeName < all[j].EmployeeName
			}
			return all[i].WeekStart.Before(all[j].WeekStart)
		})
		doc.Sections = []Section{newSection("", "All Employees", "", all)}
		return doc
	}

	byEmployee := make(map[string][]ReportRow)
	var ids []string
	for _, r := range rows {
		if _, ok := byEmployee[r.EmployeeID]; !ok {
			ids = append(ids, r.EmployeeID)
		}
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	for _, id := range ids {
		empRows := byEmployee[id]
		sort.SliceStable(empRows, func(i, j int) bool { return empRows[i].WeekStart.Before(empRows[j].WeekStart) })
		first := empRows[0]
		doc.Sections = append(doc.Sections, newSection(id, first.EmployeeName, first.EmployeeEmail, empRows))
	}
	sort.SliceStable(doc.Sections, func(i, j int) bool {
		ni, nj := strings.ToLower(doc.Sections[i].Name), strings.ToLower(doc.Sections[j].Name)
		if ni != nj {
			return ni < nj
		}
		return doc.Sections[i].EmployeeID < doc.Sections[j].EmployeeID
	})
	return doc
}

func newSection(id, name, email string, rows []ReportRow) Section {
	totals, grand := WeekdayTotals(rows)
	return Section{
		EmployeeID:    id,
		Name:          name,
		Email:         email,
		Rows:          rows,
		Tables:        GroupSubTables(rows),
		WeekdayTotals: totals,
		TotalHours:    grand,
	}
}
