// Command seed loads a JSON fixture of employees, projects, teams and
// timesheet entries into the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/config"
	"github.com/garyjia/timesheet-reports/internal/container"
	"github.com/garyjia/timesheet-reports/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	fixturePath := flag.String("fixture", "configs/seed.example.json", "path to the JSON fixture")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger, err := utils.NewCLILogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), *configPath, *fixturePath, logger); err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, configPath, fixturePath string, logger *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	fx, err := parseFixture(data)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Close()

	store := c.Store()
	if err := store.SaveEmployees(ctx, fx.Employees); err != nil {
		return fmt.Errorf("save employees: %w", err)
	}
	if err := store.SaveProjects(ctx, fx.Projects); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	if err := store.SaveTeams(ctx, fx.Teams); err != nil {
		return fmt.Errorf("save teams: %w", err)
	}
	if err := store.SaveTimesheets(ctx, fx.Entries); err != nil {
		return fmt.Errorf("save timesheets: %w", err)
	}

	logger.Info("Fixture loaded",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("employees", len(fx.Employees)),
		zap.Int("projects", len(fx.Projects)),
		zap.Int("teams", len(fx.Teams)),
		zap.Int("timesheets", len(fx.Entries)))
	return nil
}
