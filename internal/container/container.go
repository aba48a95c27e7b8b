package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/application/service"
	httpserver "github.com/garyjia/timesheet-reports/internal/interfaces/http"
	"github.com/garyjia/timesheet-reports/internal/render"
)

const healthTimeout = 3 * time.Second

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure
	store     port.Store
	archive   port.ReportArchive
	renderers map[service.Format]render.Renderer

	// Application
	reportService service.ReportService

	// Interfaces
	server *httpserver.Server

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Store
// 2. Archive storage
// 3. Renderers
// 4. Report service
// 5. HTTP server (not listening until Server().Start is called)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Store
	store, err := ProvideStore(ctx, &c.config.Database, c.logger.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.store = store
	c.logger.Info("Store initialized", zap.String("driver", c.driver()))

	// Step 2: Archive
	c.archive = ProvideArchive(&c.config.Report, c.logger.Named("archive"))
	if c.archive != nil {
		c.logger.Info("Report archive enabled", zap.String("dir", c.config.Report.ArchiveDir))
	}

	// Step 3: Renderers
	c.renderers = ProvideRenderers(&c.config.Report, c.logger)

	// Step 4: Services
	c.reportService, err = ProvideReportService(&ServiceDeps{
		Store:     c.store,
		Archive:   c.archive,
		Renderers: c.renderers,
		Report:    &c.config.Report,
		Access:    &c.config.Access,
		Logger:    c.logger,
	})
	if err != nil {
		_ = c.closeStore()
		c.store = nil
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 5: HTTP server
	c.server = httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         c.config.Server.Host,
			Port:         c.config.Server.Port,
			ReadTimeout:  c.config.Server.ReadTimeout,
			WriteTimeout: c.config.Server.WriteTimeout,
			Mode:         c.config.Server.Mode,
			ScopeHeader:  c.config.Access.ScopeHeader,
		},
		c.reportService,
		c.healthFunc,
		&zapLoggerAdapter{logger: c.logger.Named("http")},
	)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Step 1: Stop the HTTP server (reverse of step 5)
	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop server: %w", err))
		}
	}

	// Services, renderers and the archive hold no resources.

	// Step 2: Close the store (reverse of step 1)
	if err := c.closeStore(); err != nil {
		errs = append(errs, err)
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) closeStore() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(); err != nil {
		c.logger.Error("Failed to close store", zap.Error(err))
		return fmt.Errorf("close store: %w", err)
	}
	c.logger.Info("Store closed")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
// Components are read without the lock; they are only set during Start.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check store
	if c.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		if err := c.store.Ping(pingCtx); err != nil {
			status.Components["store"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["store"] = ComponentHealth{Healthy: true, Message: c.driver()}
		}
	} else {
		status.Components["store"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check report service
	if c.reportService != nil {
		status.Components["reports"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("renderers: %d", len(c.renderers)),
		}
	} else {
		status.Components["reports"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	if c.archive != nil {
		status.Components["archive"] = ComponentHealth{Healthy: true, Message: c.config.Report.ArchiveDir}
	}

	return status
}

func (c *Container) healthFunc(ctx context.Context) (bool, interface{}) {
	status := c.Health(ctx)
	return status.Overall, status.Components
}

func (c *Container) driver() string {
	if c.config.Database.Driver == "" {
		return DriverSQLite
	}
	return c.config.Database.Driver
}

// Store returns the data store
func (c *Container) Store() port.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// ReportService returns the report service
func (c *Container) ReportService() service.ReportService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reportService
}

// Server returns the HTTP server
func (c *Container) Server() *httpserver.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.server
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the http.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, ok := keysAndValues[i+1].(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
