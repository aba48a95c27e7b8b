package excel

import "time"

func formatWeek(start, end time.Time) string {
	return start.Format("2006-01-02") + " - " + end.Format("01-02")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
