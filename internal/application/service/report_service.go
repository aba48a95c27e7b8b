package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/internal/render"
	"github.com/garyjia/timesheet-reports/internal/report"
)

// ReportResult is either a rendered file or a JSON preview payload
type ReportResult struct {
	// Name is the download name without extension
	Name        string
	FileName    string
	ContentType string
	Body        []byte

	// Preview is set instead of Body for FormatJSON
	Preview interface{}
}

// GroupedPreview is the view=grouped JSON payload
type GroupedPreview struct {
	Meta     report.Meta      `json:"meta"`
	Sections []report.Section `json:"sections"`
	Summary  report.Summary   `json:"summary"`
}

// ReportService builds timesheet reports
type ReportService interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResult, error)
}

// ReportConfig holds report-wide settings
type ReportConfig struct {
	Company         report.Company
	HoursPerDay     float64
	DefaultWorkType string
}

// Repositories groups the read ports the service depends on
type Repositories struct {
	Timesheets port.TimesheetRepository
	Employees  port.EmployeeDirectory
	Projects   port.ProjectDirectory
	Teams      port.TeamDirectory
}

type reportServiceImpl struct {
	repos     Repositories
	scope     port.AccessScope
	renderers map[Format]render.Renderer
	archive   port.ReportArchive
	cfg       ReportConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService. archive may be nil.
func NewReportService(
	repos Repositories,
	scope port.AccessScope,
	renderers map[Format]render.Renderer,
	archive port.ReportArchive,
	cfg ReportConfig,
	logger *zap.Logger,
) ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HoursPerDay <= 0 {
		cfg.HoursPerDay = report.DefaultHoursPerDay
	}
	return &reportServiceImpl{
		repos:     repos,
		scope:     scope,
		renderers: renderers,
		archive:   archive,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate runs query, aggregation, grouping and rendering for one request.
func (s *reportServiceImpl) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if err := req.Normalize(s.cfg.DefaultWorkType); err != nil {
		return nil, err
	}

	var renderer render.Renderer
	if req.Format != FormatJSON {
		r, ok := s.renderers[req.Format]
		if !ok {
			return nil, fmt.Errorf("%w: no renderer for %q", ErrInvalidFormat, req.Format)
		}
		renderer = r
	}

	employeeIDs, err := s.scopeEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return nil, err
	}

	entries, err := s.repos.Timesheets.Find(ctx, entity.TimesheetQuery{
		Start:       req.Start,
		End:         req.End,
		EmployeeIDs: employeeIDs,
		ProjectIDs:  req.ProjectIDs,
		TeamIDs:     req.TeamIDs,
		Statuses:    req.Statuses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load timesheets: %w", err)
	}

	selected := req.EmployeeIDs
	if len(selected) > 0 {
		selected = employeeIDs
	}
	dir, err := s.loadDirectory(ctx, entries, selected, req.TeamIDs)
	if err != nil {
		return nil, err
	}

	opts := report.RowOptions{
		WorkType:                  req.WorkType,
		IncludeNonDepartmentTeams: includeNonDepartment(req, dir),
	}
	builder := report.NewRowBuilder(dir, opts, s.logger)
	rows := builder.Build(report.Aggregate(entries))

	weekOf := req.Start
	if weekOf.IsZero() {
		weekOf = s.now()
	}
	rows = builder.EnsureEmployees(rows, selected, weekOf)

	s.logger.Info("Report data assembled",
		zap.String("format", string(req.Format)),
		zap.String("kind", string(req.Kind)),
		zap.Int("entries", len(entries)),
		zap.Int("rows", len(rows)),
		zap.Bool("include_non_department_teams", opts.IncludeNonDepartmentTeams))

	name := reportName(req)
	if req.Format == FormatJSON && req.View == ViewRows {
		return &ReportResult{Name: name, Preview: rows}, nil
	}

	doc := report.Compose(rows, s.meta(req), s.cfg.HoursPerDay)
	if req.Format == FormatJSON {
		return &ReportResult{
			Name:    name,
			Preview: GroupedPreview{Meta: doc.Meta, Sections: doc.Sections, Summary: doc.Summary},
		}, nil
	}

	var buf bytes.Buffer
	if err := renderer.Render(ctx, doc, &buf); err != nil {
		s.logger.Error("Report rendering failed",
			zap.String("format", string(req.Format)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	result := &ReportResult{
		Name:        name,
		FileName:    name + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Body:        buf.Bytes(),
	}
	s.archiveCopy(ctx, result, renderer.Extension())
	return result, nil
}

// scopeEmployees intersects the requested employees with the caller's scope.
// An empty result slice with a nil error means "everyone".
func (s *reportServiceImpl) scopeEmployees(ctx context.Context, requested []string) ([]string, error) {
	visible, all, err := s.scope.VisibleEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve access scope: %w", err)
	}
	if all {
		return requested, nil
	}
	if len(visible) == 0 {
		return nil, ErrNoVisibleEmployees
	}
	if len(requested) == 0 {
		return visible, nil
	}

	var allowed []string
	for _, id := range requested {
		if slices.Contains(visible, id) {
			allowed = append(allowed, id)
		}
	}
	if len(allowed) == 0 {
		return nil, ErrNoVisibleEmployees
	}
	if len(allowed) < len(requested) {
		s.logger.Warn("Dropping employees outside caller scope",
			zap.Int("requested", len(requested)),
			zap.Int("allowed", len(allowed)))
	}
	return allowed, nil
}

func (s *reportServiceImpl) loadDirectory(ctx context.Context, entries []entity.TimesheetEntry, selected, filterTeams []string) (*report.Directory, error) {
	employeeIDs := append([]string(nil), selected...)
	var projectIDs []string
	teamIDs := append([]string(nil), filterTeams...)
	for _, e := range entries {
		employeeIDs = appendUnique(employeeIDs, e.EmployeeID)
		if e.ProjectID != "" {
			projectIDs = appendUnique(projectIDs, e.ProjectID)
		}
		if e.TeamID != "" {
			teamIDs = appendUnique(teamIDs, e.TeamID)
		}
	}

	var (
		employees []entity.Employee
		projects  []entity.Project
		teams     []entity.Team
		err       error
	)
	if len(employeeIDs) > 0 {
		if employees, err = s.repos.Employees.ListEmployees(ctx, employeeIDs); err != nil {
			return nil, fmt.Errorf("failed to load employees: %w", err)
		}
	}
	if len(projectIDs) > 0 {
		if projects, err = s.repos.Projects.ListProjects(ctx, projectIDs); err != nil {
			return nil, fmt.Errorf("failed to load projects: %w", err)
		}
	}
	if len(teamIDs) > 0 {
		if teams, err = s.repos.Teams.ListTeams(ctx, teamIDs); err != nil {
			return nil, fmt.Errorf("failed to load teams: %w", err)
		}
	}
	return report.NewDirectory(employees, projects, teams), nil
}

// includeNonDepartment honours the explicit flag, else infers it from the
// team filter selecting at least one non-department team.
func includeNonDepartment(req ReportRequest, dir report.NameResolver) bool {
	if req.IncludeNonDepartmentTeams != nil {
		return *req.IncludeNonDepartmentTeams
	}
	for _, id := range req.TeamIDs {
		if team, ok := dir.Team(id); ok && !team.IsDepartment {
			return true
		}
	}
	return false
}

func (s *reportServiceImpl) meta(req ReportRequest) report.Meta {
	title := "Timesheet Report"
	if req.Kind == report.KindWeekly {
		title = "Weekly Timesheet Summary"
	}
	var subtitle string
	switch req.WorkType {
	case entity.WorkTypeProject:
		subtitle = "Project work only"
	case entity.WorkTypeTeam:
		subtitle = "Team work only"
	}
	return report.Meta{
		Title:       title,
		Subtitle:    subtitle,
		Company:     s.cfg.Company,
		Period:      report.Period{Start: req.Start, End: req.End},
		Kind:        req.Kind,
		Layout:      req.Layout,
		GeneratedAt: s.now(),
	}
}

func (s *reportServiceImpl) archiveCopy(ctx context.Context, result *ReportResult, ext string) {
	if s.archive == nil {
		return
	}
	path, err := s.archive.Store(ctx, result.Name, ext, result.Body)
	if err != nil {
		s.logger.Warn("Failed to archive report copy",
			zap.String("name", result.FileName),
			zap.Error(err))
		return
	}
	s.logger.Debug("Report copy archived", zap.String("path", path))
}

func reportName(req ReportRequest) string {
	name := "timesheet-report"
	if req.Kind == report.KindWeekly {
		name = "timesheet-weekly"
	}
	if !req.Start.IsZero() {
		name += "-" + req.Start.Format("20060102")
	}
	if !req.End.IsZero() {
		name += "-" + req.End.Format("20060102")
	}
	return name
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
