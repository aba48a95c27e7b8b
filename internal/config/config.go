package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Report   ReportConfig   `mapstructure:"report"`
	Access   AccessConfig   `mapstructure:"access"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release or test
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"` // empty uses the embedded schema
	Mongo           MongoConfig   `mapstructure:"mongo"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ReportConfig holds letterhead and rendering settings
type ReportConfig struct {
	CompanyName     string   `mapstructure:"company_name"`
	CompanyAddress  []string `mapstructure:"company_address"`
	LogoPath        string   `mapstructure:"logo_path"`
	FontPath        string   `mapstructure:"font_path"`   // TTF for the PDF renderer
	FontFamily      string   `mapstructure:"font_family"` // workbook default font
	ArchiveDir      string   `mapstructure:"archive_dir"` // empty disables archiving
	HoursPerDay     float64  `mapstructure:"hours_per_day"`
	DefaultWorkType string   `mapstructure:"default_work_type"`
}

// AccessConfig is the visible-employee scope applied when the upstream
// gateway does not send one.
type AccessConfig struct {
	All         bool     `mapstructure:"all"`
	EmployeeIDs []string `mapstructure:"employee_ids"`
	ScopeHeader string   `mapstructure:"scope_header"`
}

// Load loads configuration from file and environment variables.
// An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/timesheets.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")
	v.SetDefault("database.mongo.database", "timesheets")
	v.SetDefault("database.mongo.connect_timeout", 10*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("report.company_name", "")
	v.SetDefault("report.hours_per_day", 8.0)
	v.SetDefault("report.default_work_type", "both")

	v.SetDefault("access.all", true)
	v.SetDefault("access.scope_header", "X-Visible-Employees")
}

// bindEnvVars binds the conventional variable names operators set
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("database.mongo.uri", "MONGODB_URI")
	_ = v.BindEnv("database.mongo.database", "MONGODB_DATABASE")
	_ = v.BindEnv("report.company_name", "COMPANY_NAME")
	_ = v.BindEnv("report.archive_dir", "REPORT_ARCHIVE_DIR")
	_ = v.BindEnv("server.port", "PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverMongoDB:
		if c.Database.Mongo.URI == "" {
			return fmt.Errorf("database.mongo.uri is required for the mongodb driver")
		}
		if c.Database.Mongo.Database == "" {
			return fmt.Errorf("database.mongo.database is required for the mongodb driver")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	switch c.Report.DefaultWorkType {
	case "project", "team", "both":
	default:
		return fmt.Errorf("report.default_work_type must be project, team or both")
	}
	if c.Report.HoursPerDay <= 0 {
		return fmt.Errorf("report.hours_per_day must be positive")
	}

	if !c.Access.All && len(c.Access.EmployeeIDs) == 0 && c.Access.ScopeHeader == "" {
		return fmt.Errorf("access needs all, employee_ids or scope_header")
	}

	return nil
}
