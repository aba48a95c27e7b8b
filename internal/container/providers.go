package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/application/service"
	"github.com/garyjia/timesheet-reports/internal/infrastructure/persistence/mongostore"
	"github.com/garyjia/timesheet-reports/internal/infrastructure/persistence/repository"
	"github.com/garyjia/timesheet-reports/internal/render"
	"github.com/garyjia/timesheet-reports/internal/render/excel"
	"github.com/garyjia/timesheet-reports/internal/render/pdf"
	"github.com/garyjia/timesheet-reports/internal/report"
	"github.com/garyjia/timesheet-reports/internal/storage"
	"github.com/garyjia/timesheet-reports/pkg/database"
)

// ProvideStore opens the configured store and applies its schema.
// SQLite runs migrations; MongoDB ensures indexes.
func ProvideStore(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (port.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.Driver {
	case DriverMongoDB:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverSQLite, "":
		store, err := repository.Open(ctx, database.Config{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, cfg.MigrationsDir, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ProvideArchive creates the report archive, or nil when archiving is off.
func ProvideArchive(cfg *ReportConfig, logger *zap.Logger) port.ReportArchive {
	if cfg.ArchiveDir == "" {
		return nil
	}
	return storage.NewReportArchive(storage.NewLocalFileStorage(cfg.ArchiveDir, logger), logger)
}

// ProvideRenderers creates one renderer per downloadable format.
func ProvideRenderers(cfg *ReportConfig, logger *zap.Logger) map[service.Format]render.Renderer {
	return map[service.Format]render.Renderer{
		service.FormatPDF: pdf.NewRenderer(pdf.Config{
			FontPath: cfg.FontPath,
			Compress: true,
		}, logger.Named("pdf")),
		service.FormatExcel: excel.NewRenderer(excel.Config{
			FontFamily: cfg.FontFamily,
		}, logger.Named("excel")),
	}
}

// ServiceDeps holds dependencies for creating the report service.
type ServiceDeps struct {
	Store     port.Store
	Archive   port.ReportArchive
	Renderers map[service.Format]render.Renderer
	Report    *ReportConfig
	Access    *AccessConfig
	Logger    *zap.Logger
}

// ProvideReportService wires the report service. A gateway scope on the
// request context takes precedence over the static access scope.
func ProvideReportService(deps *ServiceDeps) (service.ReportService, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	scope := service.ContextScope{
		Fallback: service.NewStaticScope(deps.Access.All, deps.Access.EmployeeIDs),
	}

	return service.NewReportService(
		service.Repositories{
			Timesheets: deps.Store,
			Employees:  deps.Store,
			Projects:   deps.Store,
			Teams:      deps.Store,
		},
		scope,
		deps.Renderers,
		deps.Archive,
		service.ReportConfig{
			Company: report.Company{
				Name:     deps.Report.CompanyName,
				Address:  deps.Report.CompanyAddress,
				LogoPath: deps.Report.LogoPath,
			},
			HoursPerDay:     deps.Report.HoursPerDay,
			DefaultWorkType: deps.Report.DefaultWorkType,
		},
		deps.Logger.Named("report"),
	), nil
}
