package report

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// SubTableRow is one unique (week, title) line of a sub-table with
// Monday to Friday hours.
type SubTableRow struct {
	WeekStart time.Time         `json:"week_start"`
	WeekEnd   time.Time         `json:"week_end"`
	Work      string            `json:"work,omitempty"`
	Hours     [WorkDays]float64 `json:"hours"`
	Total     float64           `json:"total"`
}

// Cells formats the weekday hours, blank for zero.
func (r SubTableRow) Cells() [WorkDays]string {
	var cells [WorkDays]string
	for i, h := range r.Hours {
		cells[i] = FormatHours(h)
	}
	return cells
}

// SubTable groups rows sharing one display title such as "Project: Apollo".
type SubTable struct {
	Title    string              `json:"title"`
	Kind     entity.WorkItemKind `json:"kind"`
	ShowWork bool                `json:"show_work"`
	Rows     []SubTableRow       `json:"rows"`
}

// Total sums every row total of the table.
func (t SubTable) Total() float64 {
	total := 0.0
	for _, r := range t.Rows {
		total += r.Total
	}
	return Round2(total)
}

// WeekdayTotals sums each weekday column of the table.
func (t SubTable) WeekdayTotals() [WorkDays]float64 {
	var totals [WorkDays]float64
	for _, r := range t.Rows {
		for d, h := range r.Hours {
			totals[d] += h
		}
	}
	return totals
}

type subTableAcc struct {
	title string
	kind  entity.WorkItemKind
	week  time.Time
	hours [WorkDays]float64
	works []string
}

// GroupSubTables re-aggregates rows by week and title so that every table
// holds at most one row per week. Hours of duplicate (week, title) pairs are
// summed. Tables are ordered Project, Team, Leave, then by title.
func GroupSubTables(rows []ReportRow) []SubTable {
	accs := make(map[string]*subTableAcc)
	var order []string

	for _, row := range rows {
		for _, category := range row.Categories {
			for _, item := range category.Items {
				title := item.Title()
				key := dateKey(row.WeekStart) + "_" + title
				acc, ok := accs[key]
				if !ok {
					acc = &subTableAcc{title: title, kind: item.Kind, week: row.WeekStart}
					accs[key] = acc
					order = append(order, key)
				}
				for d := 0; d < WorkDays; d++ {
					acc.hours[d] += item.Hours[d]
				}
				if item.Work != "" && !slices.Contains(acc.works, item.Work) {
					acc.works = append(acc.works, item.Work)
				}
			}
		}
	}

	tables := make(map[string]*SubTable)
	var titles []string
	for _, key := range order {
		acc := accs[key]
		table, ok := tables[acc.title]
		if !ok {
			table = &SubTable{Title: acc.title, Kind: acc.kind, ShowWork: tracksWork(acc.kind)}
			tables[acc.title] = table
			titles = append(titles, acc.title)
		}
		r := SubTableRow{
			WeekStart: acc.week,
			WeekEnd:   WeekEnd(acc.week),
			Work:      strings.Join(acc.works, ", "),
		}
		for d, h := range acc.hours {
			r.Hours[d] = Round2(h)
			r.Total += h
		}
		r.Total = Round2(r.Total)
		table.Rows = append(table.Rows, r)
	}

	out := make([]SubTable, 0, len(titles))
	for _, title := range titles {
		t := tables[title]
		sort.SliceStable(t.Rows, func(i, j int) bool { return t.Rows[i].WeekStart.Before(t.Rows[j].WeekStart) })
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := titleRank(out[i].Title), titleRank(out[j].Title)
		if ri != rj {
			return ri < rj
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// titleRank orders tables: Project(0) < Team(1) < Leave(2) < anything else(3).
func titleRank(title string) int {
	switch {
	case strings.HasPrefix(title, "Project: "):
		return 0
	case strings.HasPrefix(title, "Team: "):
		return 1
	case title == entity.KindLeave.Category():
		return 2
	default:
		return 3
	}
}

// tracksWork reports whether a category carries a free-text work label.
func tracksWork(kind entity.WorkItemKind) bool {
	return kind == entity.KindLeave
}
