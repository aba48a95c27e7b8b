package service

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/internal/render"
	"github.com/garyjia/timesheet-reports/internal/report"
)

type mockTimesheetRepo struct {
	findFunc  func(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error)
	lastQuery entity.TimesheetQuery
}

func (m *mockTimesheetRepo) Find(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error) {
	m.lastQuery = q
	if m.findFunc != nil {
		return m.findFunc(ctx, q)
	}
	return nil, nil
}

type mockDirectory struct {
	employees []entity.Employee
	projects  []entity.Project
	teams     []entity.Team
	err       error
}

func (m *mockDirectory) ListEmployees(ctx context.Context, ids []string) ([]entity.Employee, error) {
	var out []entity.Employee
	for _, e := range m.employees {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out, m.err
}

func (m *mockDirectory) ListProjects(ctx context.Context, ids []string) ([]entity.Project, error) {
	var out []entity.Project
	for _, p := range m.projects {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, m.err
}

func (m *mockDirectory) ListTeams(ctx context.Context, ids []string) ([]entity.Team, error) {
	var out []entity.Team
	for _, t := range m.teams {
		if slices.Contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out, m.err
}

type mockRenderer struct {
	err     error
	lastDoc *report.Document
}

func (m *mockRenderer) ContentType() string { return "application/pdf" }
func (m *mockRenderer) Extension() string   { return "pdf" }

func (m *mockRenderer) Render(ctx context.Context, doc *report.Document, w io.Writer) error {
	m.lastDoc = doc
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

type mockArchive struct {
	err   error
	names []string
}

func (m *mockArchive) Store(ctx context.Context, name, ext string, content []byte) (string, error) {
	m.names = append(m.names, name+"."+ext)
	return "/archive/" + name + "." + ext, m.err
}

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

func boolPtr(b bool) *bool { return &b }

func testDirectory() *mockDirectory {
	return &mockDirectory{
		employees: []entity.Employee{
			{ID: "A", FirstName: "Ada", LastName: "Lovelace"},
			{ID: "B", FirstName: "Brian", LastName: "Kernighan"},
			{ID: "C", FirstName: "Carol", LastName: "Shaw"},
		},
		projects: []entity.Project{{ID: "P1", Name: "Apollo"}},
		teams: []entity.Team{
			{ID: "T1", Name: "Platform", IsDepartment: true},
			{ID: "X1", Name: "Guild Review", IsDepartment: false},
		},
	}
}

func testEntries() []entity.TimesheetEntry {
	return []entity.TimesheetEntry{
		{EmployeeID: "A", Date: day("2024-01-01"), ProjectID: "P1", Hours: 6, Status: entity.StatusApproved},
		{EmployeeID: "A", Date: day("2024-01-02"), TeamID: "X1", Hours: 2, Status: entity.StatusApproved},
		{EmployeeID: "B", Date: day("2024-01-03"), TeamID: "T1", Hours: 4, Status: entity.StatusPending},
	}
}

type fixture struct {
	repo     *mockTimesheetRepo
	renderer *mockRenderer
	archive  *mockArchive
	svc      *reportServiceImpl
}

func newFixture(scope *StaticScope) *fixture {
	repo := &mockTimesheetRepo{
		findFunc: func(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error) {
			var out []entity.TimesheetEntry
			for _, e := range testEntries() {
				if len(q.EmployeeIDs) == 0 || slices.Contains(q.EmployeeIDs, e.EmployeeID) {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}
	dir := testDirectory()
	renderer := &mockRenderer{}
	archive := &mockArchive{}
	svc := NewReportService(
		Repositories{Timesheets: repo, Employees: dir, Projects: dir, Teams: dir},
		scope,
		map[Format]render.Renderer{FormatPDF: renderer},
		archive,
		ReportConfig{Company: report.Company{Name: "Acme"}},
		zap.NewNop(),
	).(*reportServiceImpl)
	svc.now = func() time.Time { return day("2024-01-10") }
	return &fixture{repo: repo, renderer: renderer, archive: archive, svc: svc}
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("renders pdf and archives a copy", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{
			Format: FormatPDF,
			Start:  day("2024-01-01"),
			End:    day("2024-01-07"),
		})

		require.NoError(t, err)
		assert.Equal(t, "timesheet-report-20240101-20240107.pdf", res.FileName)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.Equal(t, []byte("%PDF-fake"), res.Body)
		assert.Equal(t, []string{"timesheet-report-20240101-20240107.pdf"}, f.archive.names)

		doc := f.renderer.lastDoc
		require.NotNil(t, doc)
		assert.Equal(t, "Acme", doc.Meta.Company.Name)
		assert.Equal(t, report.KindDetailed, doc.Meta.Kind)
		// The non-department team item is hidden by default.
		assert.Equal(t, 10.0, doc.Summary.TotalHours)
	})

	t.Run("archive failure is not fatal", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))
		f.archive.err = errors.New("disk full")

		res, err := f.svc.Generate(ctx, ReportRequest{Format: FormatPDF})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Body)
	})

	t.Run("renderer failure wraps ErrRenderFailed", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))
		f.renderer.err = errors.New("font table broken")

		_, err := f.svc.Generate(ctx, ReportRequest{Format: FormatPDF})

		assert.ErrorIs(t, err, ErrRenderFailed)
		assert.Contains(t, err.Error(), "font table broken")
		assert.Empty(t, f.archive.names)
	})

	t.Run("missing renderer is an invalid format", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		_, err := f.svc.Generate(ctx, ReportRequest{Format: FormatExcel})

		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("explicit non-department flag", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{Format: FormatJSON, IncludeNonDepartmentTeams: boolPtr(true)})

		require.NoError(t, err)
		rows := res.Preview.([]report.ReportRow)
		total := 0.0
		for _, r := range rows {
			total += r.TotalHours
		}
		assert.Equal(t, 12.0, total)
	})

	t.Run("non-department teams inferred from team filter", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{Format: FormatJSON, TeamIDs: []string{"X1"}})

		require.NoError(t, err)
		rows := res.Preview.([]report.ReportRow)
		require.NotEmpty(t, rows)
		assert.Equal(t, []string{"X1"}, f.repo.lastQuery.TeamIDs)
		var sawGuild bool
		for _, r := range rows {
			for _, c := range r.Categories {
				for _, it := range c.Items {
					if it.TeamName == "Guild Review" {
						sawGuild = true
					}
				}
			}
		}
		assert.True(t, sawGuild)
	})

	t.Run("explicit false overrides inference", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{
			Format:                    FormatJSON,
			TeamIDs:                   []string{"X1"},
			IncludeNonDepartmentTeams: boolPtr(false),
		})

		require.NoError(t, err)
		for _, r := range res.Preview.([]report.ReportRow) {
			if r.EmployeeID == "A" {
				assert.Equal(t, 6.0, r.TotalHours)
			}
		}
	})

	t.Run("selected employee without entries still appears", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{
			Format:      FormatJSON,
			EmployeeIDs: []string{"C"},
			Start:       day("2024-01-01"),
			End:         day("2024-01-07"),
		})

		require.NoError(t, err)
		rows := res.Preview.([]report.ReportRow)
		require.Len(t, rows, 1)
		assert.Equal(t, "Carol Shaw", rows[0].EmployeeName)
		assert.Equal(t, 0.0, rows[0].TotalHours)
		assert.Empty(t, rows[0].Categories)
		assert.Equal(t, day("2024-01-01"), rows[0].WeekStart)
	})

	t.Run("grouped preview carries sections and summary", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{Format: FormatJSON, View: ViewGrouped})

		require.NoError(t, err)
		grouped, ok := res.Preview.(GroupedPreview)
		require.True(t, ok)
		assert.Len(t, grouped.Sections, 2)
		assert.Equal(t, 2, grouped.Summary.Employees)
		assert.Nil(t, f.renderer.lastDoc)
	})

	t.Run("weekly kind names the file accordingly", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))

		res, err := f.svc.Generate(ctx, ReportRequest{Format: FormatPDF, Kind: report.KindWeekly})

		require.NoError(t, err)
		assert.Equal(t, "timesheet-weekly.pdf", res.FileName)
		assert.Equal(t, "Weekly Timesheet Summary", f.renderer.lastDoc.Meta.Title)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		f := newFixture(NewStaticScope(true, nil))
		f.repo.findFunc = func(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error) {
			return nil, errors.New("connection reset")
		}

		_, err := f.svc.Generate(ctx, ReportRequest{Format: FormatPDF})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load timesheets")
	})
}

func TestReportService_Scope(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		scope     *StaticScope
		requested []string
		wantIDs   []string
		wantErr   error
	}{
		{"admin without selection sees everyone", NewStaticScope(true, nil), nil, nil, nil},
		{"admin selection passes through", NewStaticScope(true, nil), []string{"B"}, []string{"B"}, nil},
		{"supervisor without selection gets scope", NewStaticScope(false, []string{"A"}), nil, []string{"A"}, nil},
		{"supervisor selection is intersected", NewStaticScope(false, []string{"A"}), []string{"A", "B"}, []string{"A"}, nil},
		{"selection outside scope", NewStaticScope(false, []string{"A"}), []string{"B"}, nil, ErrNoVisibleEmployees},
		{"empty scope", NewStaticScope(false, nil), nil, nil, ErrNoVisibleEmployees},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.scope)

			_, err := f.svc.Generate(ctx, ReportRequest{Format: FormatJSON, EmployeeIDs: tt.requested})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, f.repo.lastQuery.EmployeeIDs)
		})
	}
}

func TestContextScope(t *testing.T) {
	scope := ContextScope{Fallback: NewStaticScope(true, nil)}

	ids, all, err := scope.VisibleEmployees(context.Background())
	require.NoError(t, err)
	assert.True(t, all)
	assert.Nil(t, ids)

	ids, all, err = scope.VisibleEmployees(WithScope(context.Background(), []string{"A", " A ", "B"}))
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, []string{"A", "B"}, ids)
}

func TestReportRequest_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		req     ReportRequest
		wantErr error
	}{
		{"defaults", ReportRequest{}, nil},
		{"unknown format", ReportRequest{Format: "docx"}, ErrInvalidFormat},
		{"unknown kind", ReportRequest{Kind: "monthly"}, ErrInvalidOption},
		{"unknown layout", ReportRequest{Layout: "grid"}, ErrInvalidOption},
		{"unknown view", ReportRequest{Format: FormatJSON, View: "tree"}, ErrInvalidOption},
		{"bad work type", ReportRequest{WorkType: "leave"}, ErrInvalidWorkType},
		{"bad status", ReportRequest{Statuses: []entity.Status{"Archived"}}, ErrInvalidStatus},
		{"inverted range", ReportRequest{Start: day("2024-02-01"), End: day("2024-01-01")}, ErrInvalidDateRange},
		{"single day range", ReportRequest{Start: day("2024-01-01"), End: day("2024-01-01")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := req.Normalize(entity.WorkTypeBoth)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, req.Format)
			assert.NotEmpty(t, req.Kind)
			assert.NotEmpty(t, req.Layout)
			assert.NotEmpty(t, req.View)
		})
	}

	t.Run("ids are compacted", func(t *testing.T) {
		req := ReportRequest{EmployeeIDs: []string{" A", "A", "", "B"}, TeamIDs: []string{" "}}
		require.NoError(t, req.Normalize(""))
		assert.Equal(t, []string{"A", "B"}, req.EmployeeIDs)
		assert.Nil(t, req.TeamIDs)
		assert.Equal(t, FormatPDF, req.Format)
	})
}
