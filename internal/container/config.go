// Package container provides dependency injection and lifecycle management
// for the timesheet report service.
package container

import (
	"fmt"
	"time"
)

// Store drivers
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Report letterhead and rendering configuration
	Report ReportConfig

	// Access scope applied when no gateway scope is sent
	Access AccessConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	// Driver selects the store: sqlite or mongodb
	Driver string

	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded schema when set
	MigrationsDir string

	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
}

// ReportConfig holds letterhead and renderer settings.
type ReportConfig struct {
	CompanyName    string
	CompanyAddress []string
	LogoPath       string

	// FontPath is a TTF used by the PDF renderer
	FontPath string

	// FontFamily is the workbook default font
	FontFamily string

	// ArchiveDir keeps a copy of every rendered file. Empty disables it.
	ArchiveDir string

	HoursPerDay     float64
	DefaultWorkType string
}

// AccessConfig holds the static visible-employee scope.
type AccessConfig struct {
	All         bool
	EmployeeIDs []string

	// ScopeHeader is the gateway header carrying the caller's scope
	ScopeHeader string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Mode         string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "data/timesheets.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MongoDatabase:   "timesheets",
			ConnectTimeout:  10 * time.Second,
		},
		Report: ReportConfig{
			CompanyName:     "Company",
			HoursPerDay:     8,
			DefaultWorkType: "both",
		},
		Access: AccessConfig{
			All:         true,
			ScopeHeader: "X-Visible-Employees",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, "":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required")
		}
	case DriverMongoDB:
		if c.Database.MongoURI == "" {
			return fmt.Errorf("database.mongo.uri is required")
		}
		if c.Database.MongoDatabase == "" {
			return fmt.Errorf("database.mongo.database is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if !c.Access.All && len(c.Access.EmployeeIDs) == 0 && c.Access.ScopeHeader == "" {
		return fmt.Errorf("access: no employees are visible")
	}

	return nil
}
