package report

import "github.com/garyjia/timesheet-reports/internal/domain/entity"

// DefaultHoursPerDay converts leave hours into absence days.
const DefaultHoursPerDay = 8.0

// Summary holds the overall figures printed at the end of every report.
type Summary struct {
	Employees   int     `json:"employees"`
	Teams       int     `json:"teams"`
	Projects    int     `json:"projects"`
	AbsenceDays float64 `json:"absence_days"`
	TotalHours  float64 `json:"total_hours"`
}

type absenceKey struct {
	employeeID string
	week       string
	day        int
}

// Summarize computes the overall figures over rows. Each weekday counts at
// most one absence day, however much leave was booked on it.
func Summarize(rows []ReportRow, hoursPerDay float64) Summary {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}

	employees := make(map[string]struct{})
	teams := make(map[string]struct{})
	projects := make(map[string]struct{})
	leave := make(map[absenceKey]float64)
	total := 0.0

	for _, row := range rows {
		employees[row.EmployeeID] = struct{}{}
		for _, category := range row.Categories {
			for _, item := range category.Items {
				switch item.Kind {
				case entity.KindProject:
					projects[item.ProjectID] = struct{}{}
				case entity.KindTeam:
					teams[item.TeamID] = struct{}{}
				case entity.KindLeave:
					for d := 0; d < WorkDays; d++ {
						if item.Hours[d] > 0 {
							leave[absenceKey{row.EmployeeID, dateKey(row.WeekStart), d}] += item.Hours[d]
						}
					}
				}
				total += sumWorkDays(item.Hours)
			}
		}
	}

	absence := 0.0
	for _, hours := range leave {
		absence += min(hours/hoursPerDay, 1)
	}

	return Summary{
		Employees:   len(employees),
		Teams:       len(teams),
		Projects:    len(projects),
		AbsenceDays: Round2(absence),
		TotalHours:  Round2(total),
	}
}

// WeekdayTotals sums Monday to Friday hours across rows, plus the grand total.
func WeekdayTotals(rows []ReportRow) ([WorkDays]float64, float64) {
	var totals [WorkDays]float64
	grand := 0.0
	for _, row := range rows {
		for _, category := range row.Categories {
			for _, item := range category.Items {
				for d := 0; d < WorkDays; d++ {
					totals[d] += item.Hours[d]
					grand += item.Hours[d]
				}
			}
		}
	}
	for d := range totals {
		totals[d] = Round2(totals[d])
	}
	return totals, Round2(grand)
}
