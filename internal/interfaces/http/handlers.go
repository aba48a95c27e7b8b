package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/timesheet-reports/internal/application/service"
	"github.com/garyjia/timesheet-reports/internal/domain/entity"
	"github.com/garyjia/timesheet-reports/internal/report"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	reportService service.ReportService
	health        HealthFunc
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(reportService service.ReportService, health HealthFunc, logger Logger) *Handlers {
	return &Handlers{
		reportService: reportService,
		health:        health,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// ReportQuery is the query string of GET /api/reports/timesheets
type ReportQuery struct {
	Format                    string   `form:"format" binding:"omitempty,oneof=pdf excel json"`
	Kind                      string   `form:"kind" binding:"omitempty,oneof=detailed weekly"`
	Layout                    string   `form:"layout" binding:"omitempty,oneof=employee combined"`
	View                      string   `form:"view" binding:"omitempty,oneof=rows grouped"`
	StartDate                 string   `form:"startDate"`
	EndDate                   string   `form:"endDate"`
	EmployeeIDs               []string `form:"employeeIds[]"`
	ProjectIDs                []string `form:"projectIds[]"`
	TeamIDs                   []string `form:"teamIds[]"`
	Statuses                  []string `form:"statuses[]"`
	WorkType                  string   `form:"workType" binding:"omitempty,oneof=project team both"`
	IncludeNonDepartmentTeams *bool    `form:"includeNonDepartmentTeams"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if h.health != nil {
		healthy, details := h.health(c.Request.Context())
		response.Components = details
		if !healthy {
			response.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, Response{
		Success: code == http.StatusOK,
		Data:    response,
	})
}

// GenerateTimesheetReport handles GET /api/reports/timesheets
func (h *Handlers) GenerateTimesheetReport(c *gin.Context) {
	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Error("Invalid query parameters", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters: " + err.Error(),
		})
		return
	}

	req, err := q.toRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if result.Preview != nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: result.Preview})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		h.logger.Info("Client went away before the report was ready", "path", c.Request.URL.Path)
		c.Abort()
	case errors.Is(err, service.ErrInvalidFormat),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidWorkType),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrNoVisibleEmployees):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Failed to generate report",
			"error", err,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to generate report",
		})
	}
}

// toRequest converts query parameters into a service request. Array
// parameters are accepted with or without the [] suffix and comma separated.
func (q *ReportQuery) toRequest(c *gin.Context) (service.ReportRequest, error) {
	req := service.ReportRequest{
		Format:                    service.Format(q.Format),
		Kind:                      report.Kind(q.Kind),
		Layout:                    report.Layout(q.Layout),
		View:                      service.View(q.View),
		EmployeeIDs:               splitList(q.EmployeeIDs, c.QueryArray("employeeIds")),
		ProjectIDs:                splitList(q.ProjectIDs, c.QueryArray("projectIds")),
		TeamIDs:                   splitList(q.TeamIDs, c.QueryArray("teamIds")),
		WorkType:                  q.WorkType,
		IncludeNonDepartmentTeams: q.IncludeNonDepartmentTeams,
	}

	var err error
	if req.Start, err = parseDate("startDate", q.StartDate); err != nil {
		return req, err
	}
	if req.End, err = parseDate("endDate", q.EndDate); err != nil {
		return req, err
	}

	for _, raw := range splitList(q.Statuses, c.QueryArray("statuses")) {
		status, ok := entity.ParseStatus(raw)
		if !ok {
			return req, fmt.Errorf("%w: %q", service.ErrInvalidStatus, raw)
		}
		req.Statuses = append(req.Statuses, status)
	}
	return req, nil
}

func parseDate(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	// Accept full ISO timestamps from the UI and keep only the date
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, raw)
	}
	return t, nil
}

func splitList(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, v := range list {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
