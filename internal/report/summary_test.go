package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

func TestSummarize(t *testing.T) {
	rows := buildRows(t, []entity.TimesheetEntry{
		{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 8},
		{EmployeeID: "A", Date: day("2024-01-02"), Work: "Annual Leave", Hours: 8},
		{EmployeeID: "A", Date: day("2024-01-02"), Work: "Sick Leave", Hours: 4},
		{EmployeeID: "A", Date: day("2024-01-03"), Work: "Annual Leave", Hours: 4},
		{EmployeeID: "A", Date: day("2024-01-06"), Work: "Annual Leave", Hours: 8},
		{EmployeeID: "B", Date: day("2024-01-01"), TeamID: "T1", Hours: 6},
		{EmployeeID: "B", Date: day("2024-01-02"), ProjectID: "P2", Hours: 2},
	})

	s := Summarize(rows, DefaultHoursPerDay)

	assert.Equal(t, 2, s.Employees)
	assert.Equal(t, 1, s.Teams)
	assert.Equal(t, 2, s.Projects)
	assert.Equal(t, 1.5, s.AbsenceDays, "twelve leave hours on one day cap at one day")
	assert.Equal(t, 32.0, s.TotalHours)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, 0))
}

func TestWeekdayTotals(t *testing.T) {
	rows := buildRows(t, []entity.TimesheetEntry{
		{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 1.5},
		{EmployeeID: "A", Date: day("2024-01-08"), ProjectID: "P1", Hours: 2},
		{EmployeeID: "A", Date: day("2024-01-05"), TeamID: "T1", Hours: 3},
		{EmployeeID: "A", Date: day("2024-01-07"), TeamID: "T1", Hours: 10},
	})

	totals, grand := WeekdayTotals(rows)
	require.Len(t, totals, WorkDays)
	assert.Equal(t, [WorkDays]float64{3.5, 0, 0, 0, 3}, totals)
	assert.Equal(t, 6.5, grand)
}
