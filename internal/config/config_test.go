package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 8.0, cfg.Report.HoursPerDay)
		assert.Equal(t, "both", cfg.Report.DefaultWorkType)
		assert.True(t, cfg.Access.All)
		assert.Equal(t, 10*time.Second, cfg.Database.Mongo.ConnectTimeout)
	})

	t.Run("reads yaml", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9090
  mode: debug
database:
  driver: mongodb
  mongo:
    uri: mongodb://localhost:27017
    database: hr
report:
  company_name: Acme Pty Ltd
  company_address:
    - 1 Example Street
    - Brisbane QLD 4000
  hours_per_day: 7.6
  archive_dir: /var/reports
access:
  all: false
  employee_ids: [A, B]
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, DriverMongoDB, cfg.Database.Driver)
		assert.Equal(t, "hr", cfg.Database.Mongo.Database)
		assert.Equal(t, []string{"1 Example Street", "Brisbane QLD 4000"}, cfg.Report.CompanyAddress)
		assert.Equal(t, 7.6, cfg.Report.HoursPerDay)
		assert.Equal(t, []string{"A", "B"}, cfg.Access.EmployeeIDs)

		cc := cfg.ToContainerConfig()
		assert.Equal(t, "mongodb://localhost:27017", cc.Database.MongoURI)
		assert.Equal(t, "Acme Pty Ltd", cc.Report.CompanyName)
		assert.False(t, cc.Access.All)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "report:\n  company_name: From File\n")
		t.Setenv("COMPANY_NAME", "From Env")
		t.Setenv("DATABASE_PATH", "/tmp/env.db")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "From Env", cfg.Report.CompanyName)
		assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: DriverSQLite, Path: "x.db"},
			Report:   ReportConfig{HoursPerDay: 8, DefaultWorkType: "both"},
			Access:   AccessConfig{All: true},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "unsupported database.driver"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database.path is required"},
		{"mongo without uri", func(c *Config) { c.Database.Driver = DriverMongoDB }, "database.mongo.uri is required"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad work type", func(c *Config) { c.Report.DefaultWorkType = "leave" }, "default_work_type"},
		{"zero hours per day", func(c *Config) { c.Report.HoursPerDay = 0 }, "hours_per_day"},
		{"no access source", func(c *Config) { c.Access = AccessConfig{} }, "access needs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
