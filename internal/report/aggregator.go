package report

import (
	"sort"
	"time"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// WorkItemKey identifies one line of work inside a week. Leave lines are
// additionally told apart by their work label.
type WorkItemKey struct {
	Kind      entity.WorkItemKind
	ProjectID string
	TaskID    string
	TeamID    string
	Work      string
}

// WorkItem holds one week of per-day values for a single work line,
// indexed Monday(0) .. Sunday(6).
type WorkItem struct {
	Key          WorkItemKey                `json:"-"`
	Kind         entity.WorkItemKind        `json:"kind"`
	ProjectID    string                     `json:"project_id,omitempty"`
	TaskID       string                     `json:"task_id,omitempty"`
	TeamID       string                     `json:"team_id,omitempty"`
	Work         string                     `json:"work,omitempty"`
	Hours        [DaysPerWeek]float64       `json:"hours"`
	Descriptions [DaysPerWeek]string        `json:"descriptions"`
	DailyStatus  [DaysPerWeek]entity.Status `json:"daily_status"`
}

// CategoryGroup collects the work items of one category within a week.
type CategoryGroup struct {
	Kind  entity.WorkItemKind `json:"kind"`
	Items []WorkItem          `json:"items"`
}

// WeeklyBucket is one employee's week of work.
type WeeklyBucket struct {
	EmployeeID      string          `json:"employee_id"`
	WeekStart       time.Time       `json:"week_start"`
	Categories      []CategoryGroup `json:"categories"`
	SubmissionDate  *time.Time      `json:"submission_date,omitempty"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

type bucketKey struct {
	employeeID string
	week       string
}

type bucketState struct {
	bucket WeeklyBucket
	kinds  []entity.WorkItemKind
	items  map[entity.WorkItemKind][]*WorkItem
	index  map[WorkItemKey]*WorkItem
}

// WeeklyAggregator folds per-day entries into weekly buckets. Build a new
// one per report; it is not safe for concurrent use.
type WeeklyAggregator struct {
	buckets map[bucketKey]*bucketState
}

// NewWeeklyAggregator creates an empty aggregator
func NewWeeklyAggregator() *WeeklyAggregator {
	return &WeeklyAggregator{buckets: make(map[bucketKey]*bucketState)}
}

// AddEntry writes one entry into its week. A later entry for the same
// work item and day overwrites the earlier one.
func (a *WeeklyAggregator) AddEntry(e entity.TimesheetEntry) {
	week := WeekStart(e.Date)
	bk := bucketKey{employeeID: e.EmployeeID, week: dateKey(week)}

	state, ok := a.buckets[bk]
	if !ok {
		state = &bucketState{
			bucket: WeeklyBucket{EmployeeID: e.EmployeeID, WeekStart: week},
			items:  make(map[entity.WorkItemKind][]*WorkItem),
			index:  make(map[WorkItemKey]*WorkItem),
		}
		a.buckets[bk] = state
	}

	kind := e.Kind()
	key := WorkItemKey{Kind: kind, ProjectID: e.ProjectID, TaskID: e.TaskID, TeamID: e.TeamID}
	if kind == entity.KindLeave {
		key.Work = e.Work
	}

	item, ok := state.index[key]
	if !ok {
		item = newWorkItem(key, e)
		state.index[key] = item
		if _, seen := state.items[kind]; !seen {
			state.kinds = append(state.kinds, kind)
		}
		state.items[kind] = append(state.items[kind], item)
	}
	if item.Work == "" {
		item.Work = e.Work
	}

	day := DayIndex(e.Date)
	item.Hours[day] = e.Hours
	item.Descriptions[day] = e.Description
	item.DailyStatus[day] = normalizeStatus(e.Status)

	state.bucket.SubmissionDate = latest(state.bucket.SubmissionDate, e.SubmissionDate)
	state.bucket.ApprovalDate = latest(state.bucket.ApprovalDate, e.ApprovalDate)
	if e.RejectionReason != "" {
		state.bucket.RejectionReason = e.RejectionReason
	}
}

// Build returns one bucket per (employee, week), ordered by employee then
// week. The returned values share no memory with the aggregator.
func (a *WeeklyAggregator) Build() []WeeklyBucket {
	keys := make([]bucketKey, 0, len(a.buckets))
	for k := range a.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].employeeID != keys[j].employeeID {
			return keys[i].employeeID < keys[j].employeeID
		}
		return keys[i].week < keys[j].week
	})

	out := make([]WeeklyBucket, 0, len(keys))
	for _, k := range keys {
		state := a.buckets[k]
		b := state.bucket
		b.SubmissionDate = copyTime(b.SubmissionDate)
		b.ApprovalDate = copyTime(b.ApprovalDate)

		kinds := append([]entity.WorkItemKind(nil), state.kinds...)
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

		b.Categories = make([]CategoryGroup, 0, len(kinds))
		for _, kind := range kinds {
			group := CategoryGroup{Kind: kind}
			for _, item := range state.items[kind] {
				group.Items = append(group.Items, *item)
			}
			b.Categories = append(b.Categories, group)
		}
		out = append(out, b)
	}
	return out
}

// Aggregate runs a fresh aggregator over entries.
func Aggregate(entries []entity.TimesheetEntry) []WeeklyBucket {
	agg := NewWeeklyAggregator()
	for _, e := range entries {
		agg.AddEntry(e)
	}
	return agg.Build()
}

func newWorkItem(key WorkItemKey, e entity.TimesheetEntry) *WorkItem {
	item := &WorkItem{
		Key:       key,
		Kind:      key.Kind,
		ProjectID: e.ProjectID,
		TaskID:    e.TaskID,
		TeamID:    e.TeamID,
		Work:      e.Work,
	}
	for i := range item.DailyStatus {
		item.DailyStatus[i] = entity.StatusDraft
	}
	return item
}

func normalizeStatus(s entity.Status) entity.Status {
	if s.Valid() {
		return s
	}
	return entity.StatusDraft
}

func latest(cur, next *time.Time) *time.Time {
	if next == nil {
		return cur
	}
	if cur == nil || next.After(*cur) {
		t := *next
		return &t
	}
	return cur
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
