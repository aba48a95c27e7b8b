package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/internal/report"
)

func date(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

func sampleDocument(entries []entity.TimesheetEntry, meta report.Meta) *report.Document {
	dir := report.NewDirectory(
		[]entity.Employee{
			{ID: "A", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			{ID: "B", FirstName: "Brian", LastName: "Kernighan"},
		},
		[]entity.Project{{ID: "P1", Name: "Apollo"}},
		[]entity.Team{{ID: "T1", Name: "Platform", IsDepartment: true}},
	)
	rows := report.NewRowBuilder(dir, report.RowOptions{}, zap.NewNop()).Build(report.Aggregate(entries))
	if meta.Title == "" {
		meta.Title = "Timesheet Report"
	}
	meta.Company = report.Company{Name: "Acme Pty Ltd", Address: []string{"1 Example Street", "Brisbane QLD 4000"}}
	meta.GeneratedAt = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	return report.Compose(rows, meta, report.DefaultHoursPerDay)
}

func sampleEntries() []entity.TimesheetEntry {
	return []entity.TimesheetEntry{
		{EmployeeID: "A", Date: date("2024-01-01"), ProjectID: "P1", Hours: 7.5, Status: entity.StatusApproved},
		{EmployeeID: "A", Date: date("2024-01-02"), TeamID: "T1", Hours: 2, Status: entity.StatusApproved},
		{EmployeeID: "A", Date: date("2024-01-03"), Work: "Annual Leave", Hours: 8, Status: entity.StatusApproved},
		{EmployeeID: "B", Date: date("2024-01-04"), ProjectID: "P1", Hours: 6.25, Status: entity.StatusPending},
	}
}

func extractText(t *testing.T, data []byte) (string, int) {
	t.Helper()
	doc, err := fitz.NewFromMemory(data)
	require.NoError(t, err)
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		require.NoError(t, err)
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), doc.NumPage()
}

func TestRenderer_Render(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("renders sections, tables and summary", func(t *testing.T) {
		doc := sampleDocument(sampleEntries(), report.Meta{})
		var buf bytes.Buffer

		err := NewRenderer(Config{Compress: true}, logger).Render(ctx, doc, &buf)

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

		text, _ := extractText(t, buf.Bytes())
		assert.Contains(t, text, "Acme Pty Ltd")
		assert.Contains(t, text, "Ada Lovelace")
		assert.Contains(t, text, "Brian Kernighan")
		assert.Contains(t, text, "Project: Apollo")
		assert.Contains(t, text, "Team: Platform")
		assert.Contains(t, text, "Annual Leave")
		assert.Contains(t, text, "Working Hours")
		assert.Contains(t, text, "Overall Summary")
		assert.Contains(t, text, "23.75")
		assert.Contains(t, text, "Page 1 of")
	})

	t.Run("weekly kind lists status per week", func(t *testing.T) {
		doc := sampleDocument(sampleEntries(), report.Meta{Kind: report.KindWeekly})
		var buf bytes.Buffer

		require.NoError(t, NewRenderer(Config{}, logger).Render(ctx, doc, &buf))

		text, _ := extractText(t, buf.Bytes())
		assert.Contains(t, text, "Approved")
		assert.Contains(t, text, "Pending")
		assert.Contains(t, text, "Submitted")
	})

	t.Run("empty document is well formed", func(t *testing.T) {
		doc := sampleDocument(nil, report.Meta{})
		var buf bytes.Buffer

		require.NoError(t, NewRenderer(Config{}, logger).Render(ctx, doc, &buf))

		text, pages := extractText(t, buf.Bytes())
		assert.Equal(t, 1, pages)
		assert.Contains(t, text, "No timesheet data matched the selected filters.")
		assert.Contains(t, text, "Overall Summary")
	})

	t.Run("long tables repeat column headers on continuation pages", func(t *testing.T) {
		var entries []entity.TimesheetEntry
		start := date("2023-01-02")
		for week := 0; week < 80; week++ {
			entries = append(entries, entity.TimesheetEntry{
				EmployeeID: "A",
				Date:       start.AddDate(0, 0, week*7),
				ProjectID:  "P1",
				Hours:      8,
				Status:     entity.StatusApproved,
			})
		}
		doc := sampleDocument(entries, report.Meta{})
		var buf bytes.Buffer

		require.NoError(t, NewRenderer(Config{}, logger).Render(ctx, doc, &buf))

		text, pages := extractText(t, buf.Bytes())
		assert.Greater(t, pages, 1)
		assert.Contains(t, text, "Project: Apollo (continued)")
		assert.GreaterOrEqual(t, strings.Count(text, "Mon"), pages)
		assert.Contains(t, text, fmt.Sprintf("Page %d of %d", pages-1, pages))
	})

	t.Run("missing font and logo degrade", func(t *testing.T) {
		doc := sampleDocument(sampleEntries(), report.Meta{})
		doc.Meta.Company.LogoPath = "/nonexistent/logo.png"
		var buf bytes.Buffer

		err := NewRenderer(Config{FontPath: "/nonexistent/font.ttf"}, logger).Render(ctx, doc, &buf)

		require.NoError(t, err)
		assert.NotZero(t, buf.Len())
	})

	t.Run("nil document", func(t *testing.T) {
		err := NewRenderer(Config{}, logger).Render(ctx, nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNilDocument)
	})

	t.Run("cancelled context stops rendering", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		var buf bytes.Buffer

		err := NewRenderer(Config{}, logger).Render(cctx, sampleDocument(sampleEntries(), report.Meta{}), &buf)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, buf.Len())
	})
}

func TestFit(t *testing.T) {
	pdf := fpdfForTest()
	w := &writer{pdf: pdf, logger: zap.NewNop()}
	w.setupFont("")
	pdf.AddPage()
	pdf.SetFont(w.font, "", 9)

	assert.Equal(t, "short", w.fit("short", 100))
	long := w.fit(strings.Repeat("overtime ", 20), 60)
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(long), 60.0)
}
