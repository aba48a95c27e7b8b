package report

import "github.com/garyjia/timesheet-reports/internal/domain/entity"

// WeekStatus reduces the weekday statuses of items to one week-level status.
//
// Each weekday with hours on at least one item takes the highest precedence
// status among those items (Rejected > Pending > Approved > Draft). The week
// is Approved when every such day is Approved, Rejected when every such day
// is Rejected, and Pending otherwise, including when nothing was worked.
func WeekStatus(items []WorkItem) entity.Status {
	approved, rejected, worked := 0, 0, 0
	for day := 0; day < WorkDays; day++ {
		var best entity.Status
		for _, item := range items {
			if item.Hours[day] == 0 {
				continue
			}
			if best == "" || item.DailyStatus[day].Rank() > best.Rank() {
				best = item.DailyStatus[day]
			}
		}
		if best == "" {
			continue
		}
		worked++
		switch best {
		case entity.StatusApproved:
			approved++
		case entity.StatusRejected:
			rejected++
		}
	}

	switch {
	case worked == 0:
		return entity.StatusPending
	case approved == worked:
		return entity.StatusApproved
	case rejected == worked:
		return entity.StatusRejected
	default:
		return entity.StatusPending
	}
}
