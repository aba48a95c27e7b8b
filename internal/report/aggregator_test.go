package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "monday stays", date: "2024-01-01", want: "2024-01-01"},
		{name: "wednesday", date: "2024-01-03", want: "2024-01-01"},
		{name: "saturday", date: "2024-01-06", want: "2024-01-01"},
		{name: "sunday rolls back six days", date: "2024-01-07", want: "2024-01-01"},
		{name: "crosses month", date: "2024-03-02", want: "2024-02-26"},
		{name: "crosses year", date: "2025-01-01", want: "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, day(tt.want), WeekStart(day(tt.date)))
		})
	}

	t.Run("always a monday at most six days back", func(t *testing.T) {
		start := day("2023-12-01")
		for i := 0; i < 400; i++ {
			d := start.AddDate(0, 0, i).Add(13*time.Hour + 45*time.Minute)
			ws := WeekStart(d)
			assert.Equal(t, time.Monday, ws.Weekday())
			assert.False(t, ws.After(d))
			diff := d.Sub(ws)
			assert.GreaterOrEqual(t, diff, time.Duration(0))
			assert.Less(t, diff, 7*24*time.Hour)
			assert.Equal(t, 0, ws.Hour())
		}
	})
}

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, DayIndex(day("2024-01-01")))
	assert.Equal(t, 4, DayIndex(day("2024-01-05")))
	assert.Equal(t, 5, DayIndex(day("2024-01-06")))
	assert.Equal(t, 6, DayIndex(day("2024-01-07")))
}

func TestWeeklyAggregator_AddEntry(t *testing.T) {
	t.Run("groups by employee and week", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "B", Date: day("2024-01-02"), ProjectID: "P1", Hours: 3, Status: entity.StatusPending},
			{EmployeeID: "A", Date: day("2024-01-09"), ProjectID: "P1", Hours: 2, Status: entity.StatusPending},
			{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 4, Status: entity.StatusPending},
			{EmployeeID: "A", Date: day("2024-01-03"), TeamID: "T1", Hours: 5, Status: entity.StatusApproved},
		})

		require.Len(t, buckets, 3)
		assert.Equal(t, "A", buckets[0].EmployeeID)
		assert.Equal(t, day("2024-01-01"), buckets[0].WeekStart)
		assert.Equal(t, "A", buckets[1].EmployeeID)
		assert.Equal(t, day("2024-01-08"), buckets[1].WeekStart)
		assert.Equal(t, "B", buckets[2].EmployeeID)

		first := buckets[0]
		require.Len(t, first.Categories, 2)
		assert.Equal(t, entity.KindProject, first.Categories[0].Kind)
		assert.Equal(t, entity.KindTeam, first.Categories[1].Kind)
		assert.Equal(t, 4.0, first.Categories[0].Items[0].Hours[0])
		assert.Equal(t, 5.0, first.Categories[1].Items[0].Hours[2])
	})

	t.Run("fresh items hold zero, empty and draft", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-03"), ProjectID: "P1", Hours: 6, Description: "build", Status: entity.StatusApproved},
		})
		require.Len(t, buckets, 1)
		item := buckets[0].Categories[0].Items[0]

		for d := 0; d < DaysPerWeek; d++ {
			if d == 2 {
				continue
			}
			assert.Zero(t, item.Hours[d])
			assert.Empty(t, item.Descriptions[d])
			assert.Equal(t, entity.StatusDraft, item.DailyStatus[d])
		}
		assert.Equal(t, 6.0, item.Hours[2])
		assert.Equal(t, "build", item.Descriptions[2])
		assert.Equal(t, entity.StatusApproved, item.DailyStatus[2])
	})

	t.Run("same item and day is last write wins", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 4, Description: "first", Status: entity.StatusPending},
			{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 3, Description: "second", Status: entity.StatusApproved},
		})
		require.Len(t, buckets, 1)
		require.Len(t, buckets[0].Categories[0].Items, 1)
		item := buckets[0].Categories[0].Items[0]
		assert.Equal(t, 3.0, item.Hours[0])
		assert.Equal(t, "second", item.Descriptions[0])
		assert.Equal(t, entity.StatusApproved, item.DailyStatus[0])
	})

	t.Run("entries without project or team are leave", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-01"), Work: "Annual Leave", Hours: 8, Status: entity.StatusApproved},
			{EmployeeID: "A", Date: day("2024-01-02"), Work: "Sick Leave", Hours: 8, Status: entity.StatusApproved},
		})
		require.Len(t, buckets[0].Categories, 1)
		group := buckets[0].Categories[0]
		assert.Equal(t, entity.KindLeave, group.Kind)
		require.Len(t, group.Items, 2)
		assert.Equal(t, "Annual Leave", group.Items[0].Work)
		assert.Equal(t, "Sick Leave", group.Items[1].Work)
	})

	t.Run("unknown status becomes draft", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 1, Status: "bogus"},
		})
		assert.Equal(t, entity.StatusDraft, buckets[0].Categories[0].Items[0].DailyStatus[0])
	})

	t.Run("keeps latest submission and approval dates", func(t *testing.T) {
		early, late := day("2024-01-05"), day("2024-01-06")
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 1, SubmissionDate: &late, ApprovalDate: &early},
			{EmployeeID: "A", Date: day("2024-01-02"), ProjectID: "P1", Hours: 1, SubmissionDate: &early, ApprovalDate: &late, RejectionReason: "missing notes"},
		})
		require.NotNil(t, buckets[0].SubmissionDate)
		assert.Equal(t, late, *buckets[0].SubmissionDate)
		assert.Equal(t, late, *buckets[0].ApprovalDate)
		assert.Equal(t, "missing notes", buckets[0].RejectionReason)
	})

	t.Run("weekend hours land in slots five and six", func(t *testing.T) {
		buckets := Aggregate([]entity.TimesheetEntry{
			{EmployeeID: "A", Date: day("2024-01-06"), ProjectID: "P1", Hours: 2},
			{EmployeeID: "A", Date: day("2024-01-07"), ProjectID: "P1", Hours: 3},
		})
		item := buckets[0].Categories[0].Items[0]
		assert.Equal(t, 2.0, item.Hours[5])
		assert.Equal(t, 3.0, item.Hours[6])
	})
}

func TestWeeklyAggregator_Idempotent(t *testing.T) {
	entries := []entity.TimesheetEntry{
		{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", TaskID: "T1", Hours: 4, Status: entity.StatusPending},
		{EmployeeID: "A", Date: day("2024-01-02"), TeamID: "TM", Hours: 2, Status: entity.StatusApproved},
		{EmployeeID: "B", Date: day("2024-01-09"), Work: "Leave", Hours: 8, Status: entity.StatusApproved},
	}
	snapshot := append([]entity.TimesheetEntry(nil), entries...)

	first := Aggregate(entries)
	second := Aggregate(entries)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, entries)
}

func TestWeeklyAggregator_BuildDoesNotAlias(t *testing.T) {
	agg := NewWeeklyAggregator()
	agg.AddEntry(entity.TimesheetEntry{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 4})

	built := agg.Build()
	built[0].Categories[0].Items[0].Hours[0] = 99

	again := agg.Build()
	assert.Equal(t, 4.0, again[0].Categories[0].Items[0].Hours[0])
}
