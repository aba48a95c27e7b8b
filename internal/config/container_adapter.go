package config

import (
	"github.com/garyjia/timesheet-reports/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Driver:          c.Database.Driver,
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
			MongoURI:        c.Database.Mongo.URI,
			MongoDatabase:   c.Database.Mongo.Database,
			ConnectTimeout:  c.Database.Mongo.ConnectTimeout,
		},
		Report: container.ReportConfig{
			CompanyName:     c.Report.CompanyName,
			CompanyAddress:  c.Report.CompanyAddress,
			LogoPath:        c.Report.LogoPath,
			FontPath:        c.Report.FontPath,
			FontFamily:      c.Report.FontFamily,
			ArchiveDir:      c.Report.ArchiveDir,
			HoursPerDay:     c.Report.HoursPerDay,
			DefaultWorkType: c.Report.DefaultWorkType,
		},
		Access: container.AccessConfig{
			All:         c.Access.All,
			EmployeeIDs: c.Access.EmployeeIDs,
			ScopeHeader: c.Access.ScopeHeader,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
			Mode:         c.Server.Mode,
		},
	}
}
