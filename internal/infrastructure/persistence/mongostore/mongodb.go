// Package mongostore reads report data from the MongoDB document store.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	collTimesheets = "timesheets"
	collEmployees  = "employees"
	collProjects   = "projects"
	collTeams      = "teams"
)

// Config holds the connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store implements port.Store on MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger

	timesheets *mongo.Collection
	employees  *mongo.Collection
	projects   *mongo.Collection
	teams      *mongo.Collection
}

// Open connects, pings the primary and ensures indexes
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:     client,
		db:         db,
		logger:     logger,
		timesheets: db.Collection(collTimesheets),
		employees:  db.Collection(collEmployees),
		projects:   db.Collection(collProjects),
		teams:      db.Collection(collTeams),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.timesheets.Indexes().CreateMany(ctx, timesheetIndexes()); err != nil {
		return fmt.Errorf("create timesheet indexes: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Closing MongoDB connection")
	return s.client.Disconnect(ctx)
}
