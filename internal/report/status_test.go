package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

func itemWith(hours [DaysPerWeek]float64, statuses ...entity.Status) WorkItem {
	item := WorkItem{Hours: hours}
	for i := range item.DailyStatus {
		item.DailyStatus[i] = entity.StatusDraft
	}
	copy(item.DailyStatus[:], statuses)
	return item
}

func TestWeekStatus(t *testing.T) {
	full := [DaysPerWeek]float64{8, 8, 8, 8, 8}
	a, r, p := entity.StatusApproved, entity.StatusRejected, entity.StatusPending

	tests := []struct {
		name  string
		items []WorkItem
		want  entity.Status
	}{
		{
			name:  "all approved",
			items: []WorkItem{itemWith(full, a, a, a, a, a)},
			want:  entity.StatusApproved,
		},
		{
			name:  "all rejected",
			items: []WorkItem{itemWith(full, r, r, r, r, r)},
			want:  entity.StatusRejected,
		},
		{
			name:  "approved and rejected mix is pending",
			items: []WorkItem{itemWith(full, a, a, r, a, a)},
			want:  entity.StatusPending,
		},
		{
			name:  "one pending day is pending",
			items: []WorkItem{itemWith(full, a, p, a, a, a)},
			want:  entity.StatusPending,
		},
		{
			name:  "draft day keeps week pending",
			items: []WorkItem{itemWith(full, a, a, a, a, entity.StatusDraft)},
			want:  entity.StatusPending,
		},
		{
			name: "rejected item outranks approved item on the same day",
			items: []WorkItem{
				itemWith(full, r, r, r, r, r),
				itemWith(full, a, a, a, a, a),
			},
			want: entity.StatusRejected,
		},
		{
			name: "days without hours are ignored",
			items: []WorkItem{
				itemWith([DaysPerWeek]float64{8, 0, 0, 0, 8}, a, r, r, r, a),
			},
			want: entity.StatusApproved,
		},
		{
			name: "zero hour item does not vote",
			items: []WorkItem{
				itemWith(full, a, a, a, a, a),
				itemWith([DaysPerWeek]float64{}, r, r, r, r, r),
			},
			want: entity.StatusApproved,
		},
		{
			name: "weekend statuses are ignored",
			items: []WorkItem{
				itemWith([DaysPerWeek]float64{8, 8, 8, 8, 8, 4, 4}, a, a, a, a, a, r, r),
			},
			want: entity.StatusApproved,
		},
		{
			name:  "nothing worked is pending",
			items: nil,
			want:  entity.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStatus(tt.items))
		})
	}
}
