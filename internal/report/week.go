package report

import "time"

const (
	// DaysPerWeek is the length of every per-day array, Monday first.
	DaysPerWeek = 7
	// WorkDays counts Monday to Friday; weekend slots never reach totals.
	WorkDays = 5

	dateLayout = "2006-01-02"
)

// DayIndex maps a date to its Monday-based slot: Monday=0 .. Sunday=6.
func DayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// WeekStart rolls t back to midnight of the most recent Monday, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -DayIndex(t))
}

// WeekEnd is the Friday of the week starting at start.
func WeekEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, WorkDays-1)
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}
