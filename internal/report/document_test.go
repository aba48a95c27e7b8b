package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

func TestCompose(t *testing.T) {
	entries := []entity.TimesheetEntry{
		{EmployeeID: "B", Date: day("2024-01-01"), ProjectID: "P1", Hours: 8},
		{EmployeeID: "A", Date: day("2024-01-09"), ProjectID: "P1", Hours: 2},
		{EmployeeID: "A", Date: day("2024-01-02"), TeamID: "T1", Hours: 6},
	}
	rows := buildRows(t, entries)
	meta := Meta{Title: "Timesheet Report", Period: Period{Start: day("2024-01-01"), End: day("2024-01-14")}}

	t.Run("one section per employee sorted by name", func(t *testing.T) {
		doc := Compose(rows, meta, 0)

		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "Ada Lovelace", doc.Sections[0].Name)
		assert.Equal(t, "Brian Kernighan", doc.Sections[1].Name)
		assert.Equal(t, KindDetailed, doc.Meta.Kind)
		assert.Equal(t, LayoutEmployee, doc.Meta.Layout)

		ada := doc.Sections[0]
		require.Len(t, ada.Rows, 2)
		assert.True(t, ada.Rows[0].WeekStart.Before(ada.Rows[1].WeekStart))
		assert.Equal(t, 8.0, ada.TotalHours)
		assert.True(t, ada.MixedCategories())
		assert.False(t, doc.Sections[1].MixedCategories())
		assert.Equal(t, 16.0, doc.Summary.TotalHours)
	})

	t.Run("combined layout has one section", func(t *testing.T) {
		meta := meta
		meta.Layout = LayoutCombined
		doc := Compose(rows, meta, 0)

		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "All Employees", doc.Sections[0].Name)
		assert.Equal(t, 16.0, doc.Sections[0].TotalHours)
		require.Len(t, doc.Sections[0].Tables, 2)
	})

	t.Run("no rows is an empty document", func(t *testing.T) {
		doc := Compose(nil, meta, 0)
		assert.True(t, doc.Empty())
		assert.NotNil(t, doc.Sections)
	})

	t.Run("selected employee without entries keeps a section", func(t *testing.T) {
		builder := NewRowBuilder(testDirectory(), RowOptions{}, zap.NewNop())
		rows := builder.EnsureEmployees(nil, []string{"B"}, day("2024-01-01"))

		doc := Compose(rows, meta, 0)
		require.Len(t, doc.Sections, 1)
		assert.False(t, doc.Empty())
		assert.Equal(t, "Brian Kernighan", doc.Sections[0].Name)
		assert.Zero(t, doc.Sections[0].TotalHours)
		assert.Empty(t, doc.Sections[0].Tables)
	})
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "All dates", Period{}.String())
	p := Period{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-01-01 to 2024-01-31", p.String())
}
